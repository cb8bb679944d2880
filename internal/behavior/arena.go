package behavior

// ArenaCalibration is the calibrated rectangular enclosure region in video
// pixel coordinates, fixed for a whole processing run. It is partitioned
// into 4 equal-height horizontal bands in screen-vertical order:
// Top Stimulus, Adjacent-to-Top, Adjacent-to-Bottom, Bottom Stimulus.
type ArenaCalibration struct {
	TopLeft     Point `json:"top_left"`
	BottomRight Point `json:"bottom_right"`
}

// bandOrder lists the bands top to bottom. Bands are contiguous,
// non-overlapping, and cover exactly the arena height.
var bandOrder = [4]Location{
	LocationTopStimulus,
	LocationAdjacentTop,
	LocationAdjacentBottom,
	LocationBottomStimulus,
}

// Valid reports whether the arena has positive width and height. Callers
// must reject degenerate calibrations before processing; if one slips
// through, banding degrades to LocationUnknown instead of dividing by zero.
func (a ArenaCalibration) Valid() bool {
	return a.BottomRight.X > a.TopLeft.X && a.BottomRight.Y > a.TopLeft.Y
}

// Width returns the arena width in pixels.
func (a ArenaCalibration) Width() float64 { return a.BottomRight.X - a.TopLeft.X }

// Height returns the arena height in pixels.
func (a ArenaCalibration) Height() float64 { return a.BottomRight.Y - a.TopLeft.Y }

// BandAt returns the band for a vertical pixel position. The arena is
// treated as full-width: horizontal position never affects banding.
//
// Band boundaries are half-open [lo, hi) measured from the arena top, so a
// nose at exactly 25% of the height lands in Adjacent-to-Top, 50% in
// Adjacent-to-Bottom, and 75% in Bottom Stimulus. Positions above the top
// edge band as Top Stimulus and positions at or below the bottom edge as
// Bottom Stimulus.
func (a ArenaCalibration) BandAt(y float64) Location {
	if !a.Valid() {
		return LocationUnknown
	}
	frac := (y - a.TopLeft.Y) / a.Height()
	idx := int(frac * 4)
	if frac < 0 || idx < 0 {
		idx = 0
	} else if idx > 3 {
		idx = 3
	}
	return bandOrder[idx]
}

// DistanceToTopEdge returns the vertical pixel distance from y to the
// arena's top edge. Negative when y is above the edge.
func (a ArenaCalibration) DistanceToTopEdge(y float64) float64 {
	return y - a.TopLeft.Y
}

// DistanceToBottomEdge returns the vertical pixel distance from y to the
// arena's bottom edge. Negative when y is below the edge.
func (a ArenaCalibration) DistanceToBottomEdge(y float64) float64 {
	return a.BottomRight.Y - y
}
