package service

import (
	"context"
	"time"

	"hospital-directory/internal/repository"
	"hospital-directory/pkg/logger"
)

// TokenCleanupWorker periodically removes refresh tokens that can no longer be used
type TokenCleanupWorker struct {
	userRepo *repository.UserRepository
	interval time.Duration
	now      func() time.Time
}

func NewTokenCleanupWorker(userRepo *repository.UserRepository, interval time.Duration) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		userRepo: userRepo,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the cleanup loop until ctx is cancelled
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Get().Info().Dur("interval", w.interval).Msg("token cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Get().Info().Msg("token cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce purges expired and revoked refresh tokens
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) int {
	purged, err := w.userRepo.PurgeRefreshTokens(ctx, w.now())
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to purge refresh tokens")
		return purged
	}
	if purged > 0 {
		logger.Get().Info().Int("purged", purged).Msg("purged refresh tokens")
	}
	return purged
}
