package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tutor-platform/internal/logger"
)

// StartResetTokenSweeper clears reset tokens past their TTL until ctx is
// cancelled. It returns immediately when tokens never expire.
func (s *Service) StartResetTokenSweeper(ctx context.Context, interval time.Duration) {
	if s.resetCfg.TTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reset token sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("ttl", s.resetCfg.TTL),
	)

	s.SweepExpiredResetTokens(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset token sweeper stopped")
			return
		case <-ticker.C:
			s.SweepExpiredResetTokens(ctx)
		}
	}
}

// SweepExpiredResetTokens runs one cleanup pass.
func (s *Service) SweepExpiredResetTokens(ctx context.Context) int64 {
	if s.resetCfg.TTL <= 0 {
		return 0
	}

	cleared, err := s.accounts.ClearExpiredResetTokens(ctx, s.now().Add(-s.resetCfg.TTL))
	if err != nil {
		logger.Error("Failed to clear expired reset tokens", zap.Error(err))
		return 0
	}

	if cleared > 0 {
		s.metrics.ObservePasswordReset("sweep", "expired")
	}
	logger.Debug("Expired reset tokens cleared", zap.Int64("cleared", cleared))
	return cleared
}
