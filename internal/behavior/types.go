package behavior

import (
	"encoding/json"
	"math"
)

// Location is the zone label derived purely from nose vertical position.
type Location string

const (
	// LocationTopStimulus covers the top quarter of the arena.
	LocationTopStimulus Location = "top_stimulus"
	// LocationAdjacentTop covers the second quarter from the top.
	LocationAdjacentTop Location = "adjacent_top"
	// LocationAdjacentBottom covers the third quarter from the top.
	LocationAdjacentBottom Location = "adjacent_bottom"
	// LocationBottomStimulus covers the bottom quarter of the arena.
	LocationBottomStimulus Location = "bottom_stimulus"
	// LocationUnknown indicates a missing nose or degenerate arena.
	LocationUnknown Location = "unknown"
)

// Attention is the behavioral label derived from motion, proximity, and
// orientation rules.
type Attention string

const (
	AttentionGrooming       Attention = "grooming"
	AttentionSniffingTop    Attention = "sniffing_top"
	AttentionSniffingBottom Attention = "sniffing_bottom"
	AttentionHeadTop        Attention = "head_top"
	AttentionHeadBottom     Attention = "head_bottom"
	AttentionHeadMiddle     Attention = "head_middle"
	AttentionUnknown        Attention = "unknown"
)

// Point is a 2-D pixel coordinate. Screen convention: Y increases downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Keypoint is an optional anatomical landmark position. Valid is false when
// the pose engine reported the point below its confidence threshold.
type Keypoint struct {
	X, Y  float64
	Valid bool
}

// Pt returns the keypoint position as a Point. Only meaningful when Valid.
func (k Keypoint) Pt() Point { return Point{X: k.X, Y: k.Y} }

// KeypointFrame is one per-frame observation from the pose engine. Any
// subset of the four points may be missing. Immutable once produced.
type KeypointFrame struct {
	FrameIndex  int
	TimeSeconds float64
	Nose        Keypoint
	LeftEar     Keypoint
	RightEar    Keypoint
	TailBase    Keypoint
}

// FrameResult is the classifier output for a single frame. Exactly one
// Location and one Attention label per frame, never zero, never multiple.
type FrameResult struct {
	FrameIndex   int
	TimeSeconds  float64
	Location     Location
	Attention    Attention // debounced label
	RawAttention Attention // pre-smoothing label, kept for diagnostics
	NoseX        float64   // NaN when the nose was missing
	NoseY        float64   // NaN when the nose was missing
	HeadAngleDeg float64   // (-180, 180], 0 = facing the top stimulus
	VelocityPxS  float64   // nose speed in pixels/second
}

// MarshalJSON renders missing nose coordinates as null; JSON has no NaN
// literal and encoding/json rejects it.
func (r FrameResult) MarshalJSON() ([]byte, error) {
	type jsonResult struct {
		FrameIndex   int       `json:"frame_index"`
		TimeSeconds  float64   `json:"time_s"`
		Location     Location  `json:"location"`
		Attention    Attention `json:"attention"`
		RawAttention Attention `json:"raw_attention"`
		NoseX        *float64  `json:"nose_x"`
		NoseY        *float64  `json:"nose_y"`
		HeadAngleDeg float64   `json:"head_angle_deg"`
		VelocityPxS  float64   `json:"velocity_px_s"`
	}
	out := jsonResult{
		FrameIndex:   r.FrameIndex,
		TimeSeconds:  r.TimeSeconds,
		Location:     r.Location,
		Attention:    r.Attention,
		RawAttention: r.RawAttention,
		HeadAngleDeg: r.HeadAngleDeg,
		VelocityPxS:  r.VelocityPxS,
	}
	if !math.IsNaN(r.NoseX) {
		out.NoseX = &r.NoseX
	}
	if !math.IsNaN(r.NoseY) {
		out.NoseY = &r.NoseY
	}
	return json.Marshal(out)
}

// Thresholds are the tunable rule parameters. Zero values are not usable;
// construct via DefaultThresholds or internal/config.
type Thresholds struct {
	// StationaryVelocityPxS gates the "stationary" precondition for the
	// sniffing and grooming rules.
	StationaryVelocityPxS float64
	// GroomingDistancePx is the max nose-to-tail-base distance for grooming.
	GroomingDistancePx float64
	// SniffProximityPx is the max nose distance from a stimulus edge for
	// the sniffing rules.
	SniffProximityPx float64
	// DebounceWindow is the trailing majority-vote window size in frames.
	DebounceWindow int
}

// DefaultThresholds returns the rule parameters used when no tuning file
// is supplied.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StationaryVelocityPxS: 150.0,
		GroomingDistancePx:    50.0,
		SniffProximityPx:      40.0,
		DebounceWindow:        11,
	}
}
