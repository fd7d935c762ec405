package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/infra/db"
	httpinfra "taskboard/internal/infra/http"
)

func main() {
	cfg := config.FromEnv()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	if store.DB != nil {
		go sweepSessions(db.NewSessionRepository(store.DB))
	}

	srv := httpinfra.NewServer(cfg, store)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// sweepSessions periodically removes expired session rows so the table
// does not grow without bound. Request-time expiry checks do not depend
// on this running.
func sweepSessions(sessions *db.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := sessions.DeleteExpired(ctx, time.Now())
		cancel()
		if err != nil {
			slog.Error("session sweep failed", "error", err)
			continue
		}
		if deleted > 0 {
			slog.Info("session sweep", "deleted", deleted)
		}
	}
}
