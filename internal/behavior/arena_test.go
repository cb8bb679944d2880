package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaValid(t *testing.T) {
	t.Parallel()

	t.Run("positive area is valid", func(t *testing.T) {
		t.Parallel()
		arena := ArenaCalibration{TopLeft: Point{0, 0}, BottomRight: Point{100, 100}}
		assert.True(t, arena.Valid())
	})

	t.Run("zero area is invalid", func(t *testing.T) {
		t.Parallel()
		arena := ArenaCalibration{TopLeft: Point{50, 50}, BottomRight: Point{50, 50}}
		assert.False(t, arena.Valid())
	})

	t.Run("inverted corners are invalid", func(t *testing.T) {
		t.Parallel()
		arena := ArenaCalibration{TopLeft: Point{100, 100}, BottomRight: Point{0, 0}}
		assert.False(t, arena.Valid())
	})
}

func TestArenaBandAt(t *testing.T) {
	t.Parallel()
	arena := ArenaCalibration{TopLeft: Point{0, 0}, BottomRight: Point{100, 100}}

	cases := []struct {
		name string
		y    float64
		want Location
	}{
		{"top quarter", 10, LocationTopStimulus},
		{"second quarter", 40, LocationAdjacentTop},
		{"third quarter", 60, LocationAdjacentBottom},
		{"bottom quarter", 90, LocationBottomStimulus},
		// Band edges are half-open [lo, hi): the boundary pixel belongs
		// to the lower band.
		{"boundary 25 goes to adjacent-top", 25, LocationAdjacentTop},
		{"boundary 50 goes to adjacent-bottom", 50, LocationAdjacentBottom},
		{"boundary 75 goes to bottom stimulus", 75, LocationBottomStimulus},
		{"bottom edge clamps to bottom stimulus", 100, LocationBottomStimulus},
		{"above arena clamps to top stimulus", -15, LocationTopStimulus},
		{"below arena clamps to bottom stimulus", 140, LocationBottomStimulus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, arena.BandAt(tc.y))
		})
	}
}

func TestArenaBandAtDegenerate(t *testing.T) {
	t.Parallel()
	arena := ArenaCalibration{TopLeft: Point{10, 10}, BottomRight: Point{10, 10}}
	assert.Equal(t, LocationUnknown, arena.BandAt(10))
}

func TestArenaBandOffsetOrigin(t *testing.T) {
	t.Parallel()
	// Arena not anchored at the frame origin: bands follow arena bounds,
	// not screen bounds.
	arena := ArenaCalibration{TopLeft: Point{200, 300}, BottomRight: Point{600, 700}}
	assert.Equal(t, LocationTopStimulus, arena.BandAt(310))
	assert.Equal(t, LocationAdjacentTop, arena.BandAt(450))
	assert.Equal(t, LocationAdjacentBottom, arena.BandAt(550))
	assert.Equal(t, LocationBottomStimulus, arena.BandAt(690))
}

func TestArenaEdgeDistances(t *testing.T) {
	t.Parallel()
	arena := ArenaCalibration{TopLeft: Point{0, 100}, BottomRight: Point{100, 500}}
	assert.InDelta(t, 20.0, arena.DistanceToTopEdge(120), 1e-9)
	assert.InDelta(t, 30.0, arena.DistanceToBottomEdge(470), 1e-9)
	assert.Less(t, arena.DistanceToTopEdge(90), 0.0)
}
