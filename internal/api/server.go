// Package api serves stored classification sessions over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
	"github.com/norvegicus-data/behavior.report/internal/db"
	"github.com/norvegicus-data/behavior.report/internal/monitor"
)

type Server struct {
	db *db.DB
}

func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the Behavior Report Server!"))
}

// ServeMux returns the JSON API routes. Mount under /api; chart routes
// are mounted separately so they can serve HTML.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", s.listSessions)
	mux.HandleFunc("/sessions/", s.sessionResults)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

// ChartMux returns the HTML chart routes.
func (s *Server) ChartMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ethogram", s.ethogramChart)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitor.Logf("api: failed to encode response: %v", err)
	}
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := s.db.Sessions()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve sessions: %v", err), http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []db.Session{}
	}
	s.writeJSON(w, sessions)
}

// sessionResults handles /sessions/{id}/results and /sessions/{id}/summary.
func (s *Server) sessionResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	sessionID := parts[0]

	results, err := s.db.FrameResults(sessionID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve results: %v", err), http.StatusInternalServerError)
		return
	}

	switch parts[1] {
	case "results":
		if results == nil {
			results = []behavior.FrameResult{}
		}
		s.writeJSON(w, results)
	case "summary":
		s.writeJSON(w, behavior.Summarize(results))
	default:
		http.NotFound(w, r)
	}
}

// ethogramChart renders the attention timeline for a session as HTML.
// Query params:
//   - session_id (required)
func (s *Server) ethogramChart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	results, err := s.db.FrameResults(sessionID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve results: %v", err), http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		http.Error(w, "no results for session", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := monitor.RenderEthogram(w, sessionID, results); err != nil {
		monitor.Logf("api: failed to render ethogram: %v", err)
	}
}
