package behavior

import (
	"math"

	"github.com/norvegicus-data/behavior.report/internal/units"
)

// Classifier turns a raw keypoint stream plus a calibrated arena into two
// parallel, mutually-exclusive behavioral tracks (Location, Attention).
// It holds frame-to-frame state for velocity and debouncing, so one
// instance must process exactly one video's frames in increasing frame
// order. Classify never returns an error: degraded input always resolves
// to an explicit Unknown / Head Middle label.
type Classifier struct {
	arena      ArenaCalibration
	thresholds Thresholds
	rules      []attentionRule

	// Per-video mutable state. Reset clears everything below.
	prevNose     Keypoint
	prevTimeSecs float64
	prevVelocity float64
	prevAngleDeg float64
	history      *LabelHistory
}

// attentionRule pairs a predicate with its label. Rules are evaluated in
// slice order and the first match wins.
type attentionRule struct {
	label Attention
	match func(obs frameObservation) bool
}

// frameObservation carries the derived quantities a single frame's rules
// are evaluated against.
type frameObservation struct {
	location     Location
	nose         Point
	velocityPxS  float64
	noseTailDist float64 // math.Inf(1) when tail-base missing
	angleDeg     float64
	angleKnown   bool // false when angle inputs were missing this frame
}

// NewClassifier creates a classifier for one video. The caller is expected
// to validate the arena via Valid() first; a degenerate arena degrades all
// Location output to Unknown rather than failing.
func NewClassifier(arena ArenaCalibration, th Thresholds) *Classifier {
	c := &Classifier{
		arena:      arena,
		thresholds: th,
		history:    NewLabelHistory(th.DebounceWindow),
	}
	c.rules = []attentionRule{
		{AttentionGrooming, c.isGrooming},
		{AttentionSniffingTop, c.isSniffingTop},
		{AttentionSniffingBottom, c.isSniffingBottom},
		{AttentionHeadTop, isHeadTop},
		{AttentionHeadBottom, isHeadBottom},
	}
	return c
}

// Reset clears all per-video state. Call before reusing an instance for a
// new video; never mid-video.
func (c *Classifier) Reset() {
	c.prevNose = Keypoint{}
	c.prevTimeSecs = 0
	c.prevVelocity = 0
	c.prevAngleDeg = 0
	c.history.Clear()
}

// Classify produces the result for one frame. Must be called exactly once
// per frame in strictly increasing frame-index order.
func (c *Classifier) Classify(frame KeypointFrame) FrameResult {
	result := FrameResult{
		FrameIndex:  frame.FrameIndex,
		TimeSeconds: frame.TimeSeconds,
		NoseX:       math.NaN(),
		NoseY:       math.NaN(),
	}

	// Missing nose: both tracks are Unknown and velocity/angle carry
	// forward unchanged so no motion is fabricated from a stale point.
	if !frame.Nose.Valid {
		result.Location = LocationUnknown
		result.RawAttention = AttentionUnknown
		result.HeadAngleDeg = c.prevAngleDeg
		result.VelocityPxS = c.prevVelocity
		c.history.Add(AttentionUnknown)
		result.Attention = c.history.Majority()
		return result
	}

	nose := frame.Nose.Pt()
	result.NoseX = nose.X
	result.NoseY = nose.Y

	// Location is a pure function of nose Y and arena bounds; it is never
	// smoothed because a zone crossing is a spatial partition, not a noisy
	// measurement.
	result.Location = c.arena.BandAt(nose.Y)

	result.VelocityPxS = c.updateVelocity(frame.Nose, frame.TimeSeconds)

	angleDeg, angleKnown := headAngle(frame)
	if !angleKnown {
		angleDeg = c.prevAngleDeg
	}
	result.HeadAngleDeg = angleDeg
	c.prevAngleDeg = angleDeg

	obs := frameObservation{
		location:     result.Location,
		nose:         nose,
		velocityPxS:  result.VelocityPxS,
		noseTailDist: math.Inf(1),
		angleDeg:     angleDeg,
		angleKnown:   angleKnown,
	}
	if frame.TailBase.Valid {
		obs.noseTailDist = nose.Distance(frame.TailBase.Pt())
	}

	result.RawAttention = c.rawAttention(obs)
	c.history.Add(result.RawAttention)
	result.Attention = c.history.Majority()
	return result
}

// rawAttention evaluates the rule chain in priority order; the first
// matching rule wins and ties are impossible by construction.
func (c *Classifier) rawAttention(obs frameObservation) Attention {
	for _, rule := range c.rules {
		if rule.match(obs) {
			return rule.label
		}
	}
	return AttentionHeadMiddle
}

// updateVelocity computes the nose speed from the previous sighting using
// the real timestamp delta, then advances the previous-nose state. The
// previous velocity carries forward on the first frame and on non-positive
// time deltas.
func (c *Classifier) updateVelocity(nose Keypoint, timeSecs float64) float64 {
	velocity := c.prevVelocity
	if c.prevNose.Valid {
		dt := timeSecs - c.prevTimeSecs
		if dt > 0 {
			velocity = nose.Pt().Distance(c.prevNose.Pt()) / dt
		}
	}
	c.prevNose = nose
	c.prevTimeSecs = timeSecs
	c.prevVelocity = velocity
	return velocity
}

func (c *Classifier) stationary(obs frameObservation) bool {
	return obs.velocityPxS < c.thresholds.StationaryVelocityPxS
}

func (c *Classifier) isGrooming(obs frameObservation) bool {
	return obs.noseTailDist < c.thresholds.GroomingDistancePx && c.stationary(obs)
}

func (c *Classifier) isSniffingTop(obs frameObservation) bool {
	return obs.location == LocationTopStimulus &&
		c.arena.DistanceToTopEdge(obs.nose.Y) <= c.thresholds.SniffProximityPx &&
		c.stationary(obs)
}

func (c *Classifier) isSniffingBottom(obs frameObservation) bool {
	return obs.location == LocationBottomStimulus &&
		c.arena.DistanceToBottomEdge(obs.nose.Y) <= c.thresholds.SniffProximityPx &&
		c.stationary(obs)
}

func isHeadTop(obs frameObservation) bool {
	return obs.angleKnown && obs.angleDeg >= -45 && obs.angleDeg <= 45
}

func isHeadBottom(obs frameObservation) bool {
	return obs.angleKnown && (obs.angleDeg > 135 || obs.angleDeg < -135)
}

// headAngle computes the body orientation from the tail-base to nose
// vector, falling back to ear-midpoint to nose when the tail base is
// missing. Degrees in (-180, 180], 0 = facing the top stimulus (screen
// up), positive clockwise. Returns false when neither origin is available.
func headAngle(frame KeypointFrame) (float64, bool) {
	if !frame.Nose.Valid {
		return 0, false
	}
	var origin Point
	switch {
	case frame.TailBase.Valid:
		origin = frame.TailBase.Pt()
	case frame.LeftEar.Valid && frame.RightEar.Valid:
		origin = Point{
			X: (frame.LeftEar.X + frame.RightEar.X) / 2,
			Y: (frame.LeftEar.Y + frame.RightEar.Y) / 2,
		}
	default:
		return 0, false
	}

	dx := frame.Nose.X - origin.X
	// Screen Y grows downward, so "up" is the negative Y direction.
	dy := origin.Y - frame.Nose.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return units.NormalizeDeg(math.Atan2(dx, dy) * 180 / math.Pi), true
}
