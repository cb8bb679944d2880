// Command rat classifies mouse behavior from pose-estimation keypoint
// exports. For each input file it streams frames through the rule
// classifier and writes per-frame and summary CSVs, optionally recording
// the session to SQLite and rendering a trajectory plot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
	"github.com/norvegicus-data/behavior.report/internal/config"
	"github.com/norvegicus-data/behavior.report/internal/db"
	"github.com/norvegicus-data/behavior.report/internal/export"
	"github.com/norvegicus-data/behavior.report/internal/monitor"
	"github.com/norvegicus-data/behavior.report/internal/pose"
)

var (
	keypoints  = flag.String("keypoints", "", "Keypoint CSV file or glob (required)")
	arenaPath  = flag.String("arena", "", "Arena calibration JSON file (required)")
	configPath = flag.String("config", "", "Tuning config JSON file (optional)")
	outDir     = flag.String("out", ".", "Output directory for CSV files")
	fps        = flag.Float64("fps", pose.DefaultFPS, "Video frame rate")
	dbPath     = flag.String("db", "", "SQLite database path (optional)")
	renderPlot = flag.Bool("plot", false, "Render a trajectory PNG per video")
)

func main() {
	flag.Parse()

	if *keypoints == "" {
		log.Fatal("-keypoints is required")
	}
	if *arenaPath == "" {
		log.Fatal("-arena is required")
	}

	arena, err := config.LoadArena(*arenaPath)
	if err != nil {
		log.Fatalf("failed to load arena calibration: %v", err)
	}

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	inputs, err := filepath.Glob(*keypoints)
	if err != nil {
		log.Fatalf("bad -keypoints pattern: %v", err)
	}
	if len(inputs) == 0 {
		log.Fatalf("no keypoint files match %q", *keypoints)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	var database *db.DB
	if *dbPath != "" {
		database, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer database.Close()
	}

	reader := pose.NewReader(tuning.GetMinConfidence(), *fps)
	thresholds := tuning.Thresholds()

	failures := 0
	for _, input := range inputs {
		if err := processVideo(input, arena, thresholds, tuning.GetPixelsPerCm(), reader, database); err != nil {
			// One bad video must not sink the batch.
			log.Printf("failed to process %s: %v", input, err)
			failures++
		}
	}

	log.Printf("processed %d video(s), %d failure(s)", len(inputs), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// processVideo runs one keypoint export through a fresh classifier and
// writes its outputs.
func processVideo(input string, arena behavior.ArenaCalibration, thresholds behavior.Thresholds, pixelsPerCm float64, reader *pose.Reader, database *db.DB) error {
	frames, err := reader.ReadFile(input)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames in %s", input)
	}

	classifier := behavior.NewClassifier(arena, thresholds)
	results := make([]behavior.FrameResult, 0, len(frames))
	for _, frame := range frames {
		results = append(results, classifier.Classify(frame))
	}
	summary := behavior.Summarize(results)

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	resultsPath := filepath.Join(*outDir, base+"_results.csv")
	summaryPath := filepath.Join(*outDir, base+"_summary.csv")

	if err := writeCSVs(resultsPath, summaryPath, results, summary, pixelsPerCm); err != nil {
		return err
	}

	if database != nil {
		sessionID, err := database.CreateSession(base, arena, thresholds)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		if err := database.RecordFrameResults(sessionID, results); err != nil {
			database.FinishSession(sessionID, 0, 0, db.StatusFailed)
			return fmt.Errorf("failed to record results: %w", err)
		}
		if err := database.FinishSession(sessionID, int64(len(results)), summary.DurationSecs, db.StatusComplete); err != nil {
			return err
		}
		monitor.Logf("recorded session %s for %s", sessionID, base)
	}

	if *renderPlot {
		pngPath := filepath.Join(*outDir, base+"_trajectory.png")
		if err := monitor.PlotTrajectory(results, arena, pngPath); err != nil {
			return fmt.Errorf("failed to render trajectory: %w", err)
		}
	}

	log.Printf("%s: %d frames, %.1fs, wrote %s", base, len(results), summary.DurationSecs, resultsPath)
	return nil
}

func writeCSVs(resultsPath, summaryPath string, results []behavior.FrameResult, summary behavior.SessionSummary, pixelsPerCm float64) error {
	resultsFile, err := os.Create(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer resultsFile.Close()

	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	w := export.NewCSVWriter(resultsFile, summaryFile)
	w.WriteHeaders()
	for _, r := range results {
		w.WriteResultRow(r)
	}
	w.WriteSummary(summary, pixelsPerCm)
	return w.Flush()
}
