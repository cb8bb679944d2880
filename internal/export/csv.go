// Package export writes the ordered frame-result sequence and session
// rollups as CSV, the downstream contract consumed by analysis notebooks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
	"github.com/norvegicus-data/behavior.report/internal/units"
)

// ResultColumns is the fixed column layout of the per-frame CSV.
var ResultColumns = []string{
	"Frame", "Time_s", "Location", "Attention",
	"Nose_X", "Nose_Y", "Head_Angle", "Velocity_px_s",
}

// CSVWriter wraps csv.Writer with methods for result and summary output.
type CSVWriter struct {
	Results *csv.Writer
	Summary *csv.Writer
}

// NewCSVWriter creates a new CSVWriter with the given results and summary writers.
func NewCSVWriter(results, summary io.Writer) *CSVWriter {
	return &CSVWriter{
		Results: csv.NewWriter(results),
		Summary: csv.NewWriter(summary),
	}
}

// WriteHeaders writes the headers to both the results and summary CSV files.
func (c *CSVWriter) WriteHeaders() {
	c.Results.Write(ResultColumns)
	c.Summary.Write([]string{
		"Label", "Frames", "Seconds", "Fraction_Time", "Bouts",
	})
}

// WriteResultRow writes a single frame result row. A missing nose renders
// empty coordinate cells rather than NaN text.
func (c *CSVWriter) WriteResultRow(r behavior.FrameResult) {
	row := []string{
		fmt.Sprintf("%d", r.FrameIndex),
		fmt.Sprintf("%.3f", r.TimeSeconds),
		string(r.Location),
		string(r.Attention),
		coordCell(r.NoseX),
		coordCell(r.NoseY),
		fmt.Sprintf("%.1f", r.HeadAngleDeg),
		fmt.Sprintf("%.2f", r.VelocityPxS),
	}
	c.Results.Write(row)
}

// WriteSummary writes per-label occupancy rows followed by a velocity
// trailer. The trailer reports cm/s alongside px/s when an arena scale is
// configured.
func (c *CSVWriter) WriteSummary(s behavior.SessionSummary, pixelsPerCm float64) {
	for _, occ := range s.Occupancy {
		c.Summary.Write([]string{
			string(occ.Label),
			fmt.Sprintf("%d", occ.Frames),
			fmt.Sprintf("%.3f", occ.Seconds),
			fmt.Sprintf("%.4f", occ.FractionTime),
			fmt.Sprintf("%d", occ.Bouts),
		})
	}

	c.Summary.Write([]string{})
	c.Summary.Write([]string{"Metric", "Value", "Unit"})
	c.Summary.Write([]string{"frames", fmt.Sprintf("%d", s.FrameCount), "count"})
	c.Summary.Write([]string{"duration", fmt.Sprintf("%.3f", s.DurationSecs), "s"})
	c.Summary.Write([]string{"mean_velocity", fmt.Sprintf("%.2f", s.MeanVelocityPxS), units.PXS})
	c.Summary.Write([]string{"peak_velocity", fmt.Sprintf("%.2f", s.PeakVelocityPxS), units.PXS})
	if pixelsPerCm > 0 {
		c.Summary.Write([]string{
			"mean_velocity",
			fmt.Sprintf("%.2f", units.ConvertVelocity(s.MeanVelocityPxS, pixelsPerCm, units.CMS)),
			units.CMS,
		})
		c.Summary.Write([]string{
			"peak_velocity",
			fmt.Sprintf("%.2f", units.ConvertVelocity(s.PeakVelocityPxS, pixelsPerCm, units.CMS)),
			units.CMS,
		})
	}
}

// Flush flushes both writers and reports the first write error, if any.
func (c *CSVWriter) Flush() error {
	c.Results.Flush()
	c.Summary.Flush()
	if err := c.Results.Error(); err != nil {
		return fmt.Errorf("results csv write failed: %w", err)
	}
	if err := c.Summary.Error(); err != nil {
		return fmt.Errorf("summary csv write failed: %w", err)
	}
	return nil
}

func coordCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.1f", v)
}
