package wallet

import (
	"context"

	"brokerage/internal/models"

	"go.uber.org/zap"
)

func (s *service) cachedWallet(ctx context.Context, userID uint) *models.Wallet {
	if s.cache == nil {
		return nil
	}
	w, err := s.cache.GetWallet(ctx, userID)
	if err != nil {
		s.logger.Warn("wallet cache read failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	return w
}

func (s *service) storeWallet(ctx context.Context, w *models.Wallet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheWallet(ctx, w); err != nil {
		s.logger.Warn("wallet cache write failed", zap.Uint("user_id", w.UserID), zap.Error(err))
	}
}

// invalidateWallet drops the cached wallet after a ledger change.
func (s *service) invalidateWallet(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		s.logger.Warn("wallet cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
