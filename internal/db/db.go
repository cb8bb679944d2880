// Package db persists classification sessions and their per-frame results
// in SQLite.
package db

import (
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
	"github.com/norvegicus-data/behavior.report/internal/monitor"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the database at path and migrates it to the
// latest schema.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Batch inserts of whole videos benefit from WAL; foreign keys are
	// off by default in SQLite.
	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
	`); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	d := &DB{db}
	if err := d.MigrateUp(); err != nil {
		return nil, err
	}
	return d, nil
}

// Session records one classified video: which arena and thresholds were in
// effect, how many frames were processed, and whether the run completed.
type Session struct {
	ID         string    `json:"session_id"`
	VideoName  string    `json:"video_name"`
	ArenaJSON  string    `json:"arena_json"`
	Thresholds string    `json:"thresholds_json"`
	FrameCount int64     `json:"frame_count"`
	DurationS  float64   `json:"duration_s"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session status values.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// CreateSession inserts a new session row in the running state and returns
// its generated id.
func (db *DB) CreateSession(videoName string, arena behavior.ArenaCalibration, thresholds behavior.Thresholds) (string, error) {
	arenaJSON, err := json.Marshal(arena)
	if err != nil {
		return "", fmt.Errorf("failed to encode arena: %w", err)
	}
	thresholdsJSON, err := json.Marshal(thresholds)
	if err != nil {
		return "", fmt.Errorf("failed to encode thresholds: %w", err)
	}

	id := uuid.NewString()
	_, err = db.Exec(
		`INSERT INTO sessions (session_id, video_name, arena_json, thresholds_json, status)
		 VALUES (?, ?, ?, ?, ?)`,
		id, videoName, string(arenaJSON), string(thresholdsJSON), StatusRunning,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishSession marks a session complete or failed and records its final
// frame count and duration.
func (db *DB) FinishSession(id string, frameCount int64, durationS float64, status string) error {
	res, err := db.Exec(
		`UPDATE sessions SET frame_count = ?, duration_s = ?, status = ? WHERE session_id = ?`,
		frameCount, durationS, status, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no session with id %s", id)
	}
	return nil
}

// RecordFrameResults inserts a batch of per-frame results for a session in
// a single transaction. Missing nose coordinates (NaN) are stored as NULL.
func (db *DB) RecordFrameResults(sessionID string, results []behavior.FrameResult) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO frame_results (
			session_id, frame_index, time_s, location, attention, raw_attention,
			nose_x, nose_y, head_angle, velocity_px_s
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(
			sessionID, r.FrameIndex, r.TimeSeconds,
			string(r.Location), string(r.Attention), string(r.RawAttention),
			nullableCoord(r.NoseX), nullableCoord(r.NoseY),
			r.HeadAngleDeg, r.VelocityPxS,
		); err != nil {
			return fmt.Errorf("failed to insert frame %d: %w", r.FrameIndex, err)
		}
	}

	return tx.Commit()
}

// Sessions returns the most recent sessions, newest first.
func (db *DB) Sessions() ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, video_name, arena_json, thresholds_json,
			frame_count, duration_s, status, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT 100`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID, &s.VideoName, &s.ArenaJSON, &s.Thresholds,
			&s.FrameCount, &s.DurationS, &s.Status, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// FrameResults returns a session's results ordered by frame index. NULL
// nose coordinates come back as NaN.
func (db *DB) FrameResults(sessionID string) ([]behavior.FrameResult, error) {
	rows, err := db.Query(
		`SELECT frame_index, time_s, location, attention, raw_attention,
			nose_x, nose_y, head_angle, velocity_px_s
		 FROM frame_results WHERE session_id = ? ORDER BY frame_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []behavior.FrameResult
	for rows.Next() {
		var (
			r            behavior.FrameResult
			location     string
			attention    string
			rawAttention string
			noseX, noseY sql.NullFloat64
		)
		if err := rows.Scan(
			&r.FrameIndex, &r.TimeSeconds, &location, &attention, &rawAttention,
			&noseX, &noseY, &r.HeadAngleDeg, &r.VelocityPxS,
		); err != nil {
			return nil, err
		}
		r.Location = behavior.Location(location)
		r.Attention = behavior.Attention(attention)
		r.RawAttention = behavior.Attention(rawAttention)
		r.NoseX = coordValue(noseX)
		r.NoseY = coordValue(noseY)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func nullableCoord(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func coordValue(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://behavior.db", db.DB, &tailsql.DBOptions{
		Label: "Behavior DB",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				monitor.Logf("failed to remove backup file: %v", err)
			}
		}()

		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := io.Copy(gz, backupFile); err != nil {
			monitor.Logf("failed to stream backup: %v", err)
		}
	}))

	return nil
}
