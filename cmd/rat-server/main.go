// Command rat-server serves recorded classification sessions: a JSON API
// for session listings and per-frame results, HTML ethogram charts, and
// admin debugging routes for the underlying SQLite database.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/norvegicus-data/behavior.report/internal/api"
	"github.com/norvegicus-data/behavior.report/internal/db"
)

var (
	dbPath  = flag.String("db", "behavior.db", "SQLite database path")
	listen  = flag.String("listen", ":8080", "Listen address")
	devMode = flag.Bool("dev", false, "Run in dev mode (logs every request)")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	// admin debugging routes (tailsql, backup)
	if err := database.AttachAdminRoutes(mux); err != nil {
		log.Fatalf("failed to attach admin routes: %v", err)
	}

	server := api.NewServer(database)
	mux.Handle("/api/", http.StripPrefix("/api", server.ServeMux()))
	mux.Handle("/charts/", http.StripPrefix("/charts", server.ChartMux()))

	var h http.Handler = mux
	if *devMode {
		h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("got request %q", r.URL.Path)
			mux.ServeHTTP(w, r)
		})
	}

	httpServer := &http.Server{
		Addr:    *listen,
		Handler: h,
	}

	go func() {
		log.Printf("listening on %s", *listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}
