package discovery

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/convert"
	"github.com/scholarstream/scholarstream/internal/store"
)

// Refresher periodically re-scrapes all sources and folds new opportunities
// into the shared set, so cache-path discovery keeps serving fresh data.
type Refresher struct {
	store    store.Store
	sources  Sourcer
	logger   *zap.Logger
	interval time.Duration
}

func NewRefresher(s store.Store, sources Sourcer, logger *zap.Logger, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &Refresher{
		store:    s,
		sources:  sources,
		logger:   logger.Named("refresher"),
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, refreshing once per interval. The
// first refresh happens after one full interval, not at startup: a cold
// start is handled by the first discovery request instead.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	start := time.Now()
	raws := r.sources.Aggregate(ctx)

	saved := 0
	for _, raw := range raws {
		opp, err := convert.Opportunity(raw)
		if err != nil {
			continue
		}
		if err := r.store.SaveOpportunity(ctx, opp); err != nil {
			r.logger.Warn("refresh save failed",
				zap.String("name", opp.Name), zap.Error(err))
			continue
		}
		saved++
	}

	r.logger.Info("opportunity set refreshed",
		zap.Int("scraped", len(raws)),
		zap.Int("saved", saved),
		zap.Duration("took", time.Since(start)))
}
