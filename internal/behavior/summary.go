package behavior

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LabelOccupancy is the rollup for one Attention label over a session.
type LabelOccupancy struct {
	Label        Attention
	Frames       int
	Seconds      float64
	FractionTime float64
	Bouts        int // number of consecutive runs of this label
}

// Bout is one consecutive run of a single smoothed Attention label.
type Bout struct {
	Label      Attention
	StartFrame int
	EndFrame   int // inclusive
	StartSecs  float64
	EndSecs    float64
}

// SessionSummary aggregates a full video's frame results.
type SessionSummary struct {
	FrameCount      int
	DurationSecs    float64
	Occupancy       []LabelOccupancy // sorted by descending time
	Bouts           []Bout
	MeanVelocityPxS float64
	PeakVelocityPxS float64
	StdVelocityPxS  float64
}

// Summarize computes session rollups from an ordered result sequence.
// Occupancy seconds are apportioned by inter-frame deltas; the final frame
// contributes the trailing mean delta so totals match the duration.
func Summarize(results []FrameResult) SessionSummary {
	summary := SessionSummary{FrameCount: len(results)}
	if len(results) == 0 {
		return summary
	}

	summary.DurationSecs = results[len(results)-1].TimeSeconds - results[0].TimeSeconds

	meanDelta := 0.0
	if len(results) > 1 {
		meanDelta = summary.DurationSecs / float64(len(results)-1)
	}

	frames := make(map[Attention]int)
	seconds := make(map[Attention]float64)
	bouts := make(map[Attention]int)
	velocities := make([]float64, 0, len(results))

	var current *Bout
	for i, r := range results {
		frames[r.Attention]++

		delta := meanDelta
		if i+1 < len(results) {
			delta = results[i+1].TimeSeconds - r.TimeSeconds
		}
		seconds[r.Attention] += delta

		velocities = append(velocities, r.VelocityPxS)
		if r.VelocityPxS > summary.PeakVelocityPxS {
			summary.PeakVelocityPxS = r.VelocityPxS
		}

		if current != nil && current.Label == r.Attention {
			current.EndFrame = r.FrameIndex
			current.EndSecs = r.TimeSeconds
			continue
		}
		if current != nil {
			summary.Bouts = append(summary.Bouts, *current)
		}
		current = &Bout{
			Label:      r.Attention,
			StartFrame: r.FrameIndex,
			EndFrame:   r.FrameIndex,
			StartSecs:  r.TimeSeconds,
			EndSecs:    r.TimeSeconds,
		}
		bouts[r.Attention]++
	}
	if current != nil {
		summary.Bouts = append(summary.Bouts, *current)
	}

	// Dwell time totals duration plus the trailing frame's mean delta, so
	// fractions are computed against that and sum to one.
	total := summary.DurationSecs + meanDelta
	if total <= 0 {
		total = 1
	}
	for label, n := range frames {
		summary.Occupancy = append(summary.Occupancy, LabelOccupancy{
			Label:        label,
			Frames:       n,
			Seconds:      seconds[label],
			FractionTime: seconds[label] / total,
			Bouts:        bouts[label],
		})
	}
	sort.Slice(summary.Occupancy, func(i, j int) bool {
		if summary.Occupancy[i].Seconds != summary.Occupancy[j].Seconds {
			return summary.Occupancy[i].Seconds > summary.Occupancy[j].Seconds
		}
		return summary.Occupancy[i].Label < summary.Occupancy[j].Label
	})

	summary.MeanVelocityPxS = stat.Mean(velocities, nil)
	if len(velocities) > 1 {
		summary.StdVelocityPxS = stat.StdDev(velocities, nil)
	}
	return summary
}
