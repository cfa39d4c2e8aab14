package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"tradejournal/internal/domain"
)

// Housekeeper runs the periodic storage cleanup jobs: purging expired
// single-use tokens and defunct sessions.
type Housekeeper struct {
	cron     *cron.Cron
	tokens   domain.TokenRepository
	sessions domain.SessionRepository
}

// NewHousekeeper creates a new Housekeeper
func NewHousekeeper(tokens domain.TokenRepository, sessions domain.SessionRepository) *Housekeeper {
	return &Housekeeper{
		cron:     cron.New(),
		tokens:   tokens,
		sessions: sessions,
	}
}

// Start registers the cleanup jobs and starts the scheduler
func (h *Housekeeper) Start() error {
	// Hourly: drop expired single-use tokens
	if _, err := h.cron.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		purged, err := h.tokens.DeleteExpired(ctx, time.Now())
		if err != nil {
			slog.Error("token purge failed", "error", err)
			return
		}
		if purged > 0 {
			slog.Info("expired tokens purged", "count", purged)
		}
	}); err != nil {
		return err
	}

	// Daily at 03:00: drop expired and revoked sessions
	if _, err := h.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		purged, err := h.sessions.DeleteDefunct(ctx, time.Now())
		if err != nil {
			slog.Error("session purge failed", "error", err)
			return
		}
		if purged > 0 {
			slog.Info("defunct sessions purged", "count", purged)
		}
	}); err != nil {
		return err
	}

	h.cron.Start()
	slog.Info("housekeeping scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (h *Housekeeper) Stop() {
	ctx := h.cron.Stop()
	<-ctx.Done()
}
