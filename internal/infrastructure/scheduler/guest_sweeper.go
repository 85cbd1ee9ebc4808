package scheduler

import (
	"context"
	"time"

	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"github.com/shopcraft/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// GuestCartSweepJob expires file-backed guest carts that have not been
// written for cfg.GuestTTL. Redis carts expire on their own, so the job is
// only returned for the file storage.
func GuestCartSweepJob(cfg config.CartConfig, logger *zap.Logger) (Job, bool) {
	if cfg.GuestStorage != "file" || cfg.GuestTTL <= 0 {
		return Job{}, false
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	interval := cfg.GuestTTL / 24
	if interval < time.Minute {
		interval = time.Minute
	}
	return Job{
		Name:       "guest_cart_sweep",
		Interval:   interval,
		RunOnStart: true,
		Run: func(context.Context) error {
			n, err := storage.SweepStaleFiles(cfg.GuestDir, cfg.GuestTTL, time.Now())
			if n > 0 {
				logger.Info("Expired guest carts removed", zap.Int("count", n))
			}
			return err
		},
	}, true
}
