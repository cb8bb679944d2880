// Package pose reads keypoint observations exported by the upstream
// pose-estimation engine. The engine itself (model loading, inference,
// video decoding) is an external collaborator; this package only consumes
// its per-frame CSV exports.
package pose

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
	"github.com/norvegicus-data/behavior.report/internal/monitor"
)

// Body part names in the pose engine's export. The pre-trained top-view
// mouse model emits many more landmarks; only these four drive the
// classifier.
const (
	PartNose     = "nose"
	PartLeftEar  = "left_ear"
	PartRightEar = "right_ear"
	PartTailBase = "tail_base"
)

// DefaultFPS is assumed when the caller supplies no frame rate.
const DefaultFPS = 30.0

// Reader parses DeepLabCut-style keypoint CSV exports: three header rows
// (scorer, bodyparts, coords) followed by one row per frame with
// x/y/likelihood triplets per body part, first column the frame index.
type Reader struct {
	// MinConfidence thresholds each point's likelihood into present/absent.
	MinConfidence float64
	// FPS converts frame indices into timestamps. The classifier uses
	// real timestamp deltas, so a wrong FPS scales velocities but never
	// fabricates motion.
	FPS float64
}

// NewReader creates a reader with the given confidence gate and frame rate.
func NewReader(minConfidence, fps float64) *Reader {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Reader{MinConfidence: minConfidence, FPS: fps}
}

// column addresses one value inside a frame row.
type column struct {
	part  string
	coord string // "x", "y", or "likelihood"
}

// ReadFile parses a keypoint export file into an ordered frame sequence.
func (r *Reader) ReadFile(path string) ([]behavior.KeypointFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keypoint file: %w", err)
	}
	defer f.Close()

	frames, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

// Read parses a keypoint export stream into an ordered frame sequence.
// Malformed data rows are skipped with a logged warning; only a broken
// header is fatal.
func (r *Reader) Read(rd io.Reader) ([]behavior.KeypointFrame, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1 // header rows are ragged in some exports

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var frames []behavior.KeypointFrame
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read keypoint row: %w", err)
		}

		frame, ok := r.parseFrame(header, record)
		if !ok {
			monitor.Logf("pose: skipping malformed row (frame column %q)", first(record))
			continue
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// readHeader consumes the scorer/bodyparts/coords rows and returns the
// column layout.
func readHeader(cr *csv.Reader) ([]column, error) {
	scorer, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read scorer row: %w", err)
	}
	if len(scorer) == 0 || !strings.EqualFold(scorer[0], "scorer") {
		return nil, fmt.Errorf("not a keypoint export: first header cell is %q, want \"scorer\"", first(scorer))
	}

	bodyparts, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read bodyparts row: %w", err)
	}
	coords, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read coords row: %w", err)
	}
	if len(bodyparts) != len(coords) {
		return nil, fmt.Errorf("header mismatch: %d bodyparts columns vs %d coords columns", len(bodyparts), len(coords))
	}

	header := make([]column, len(bodyparts))
	for i := 1; i < len(bodyparts); i++ {
		header[i] = column{
			part:  strings.ToLower(strings.TrimSpace(bodyparts[i])),
			coord: strings.ToLower(strings.TrimSpace(coords[i])),
		}
	}
	return header, nil
}

// parseFrame converts one data row into a KeypointFrame. Points below the
// confidence gate, with unparseable values, or absent from the row come
// out as invalid keypoints rather than errors.
func (r *Reader) parseFrame(header []column, record []string) (behavior.KeypointFrame, bool) {
	var frame behavior.KeypointFrame
	if len(record) == 0 {
		return frame, false
	}

	idx, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return frame, false
	}
	frame.FrameIndex = idx
	frame.TimeSeconds = float64(idx) / r.FPS

	type triplet struct {
		x, y, likelihood float64
		seen             int
	}
	parts := map[string]*triplet{}

	for i := 1; i < len(record) && i < len(header); i++ {
		col := header[i]
		if col.part == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			continue
		}
		tp := parts[col.part]
		if tp == nil {
			tp = &triplet{}
			parts[col.part] = tp
		}
		switch col.coord {
		case "x":
			tp.x = v
			tp.seen |= 1
		case "y":
			tp.y = v
			tp.seen |= 2
		case "likelihood":
			tp.likelihood = v
			tp.seen |= 4
		}
	}

	keypoint := func(part string) behavior.Keypoint {
		tp := parts[part]
		if tp == nil || tp.seen != 7 || tp.likelihood < r.MinConfidence {
			return behavior.Keypoint{}
		}
		return behavior.Keypoint{X: tp.x, Y: tp.y, Valid: true}
	}

	frame.Nose = keypoint(PartNose)
	frame.LeftEar = keypoint(PartLeftEar)
	frame.RightEar = keypoint(PartRightEar)
	frame.TailBase = keypoint(PartTailBase)
	return frame, true
}

func first(record []string) string {
	if len(record) == 0 {
		return ""
	}
	return record[0]
}
