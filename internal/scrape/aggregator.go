package scrape

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregator fans registered scrapers out in parallel and merges their
// output. One broken or slow source never fails the batch; its slot simply
// comes back empty. Dedup keeps the first occurrence in registration order,
// so identical inputs always produce identical output.
type Aggregator struct {
	scrapers    []Scraper
	logger      *zap.Logger
	maxParallel int
}

func NewAggregator(logger *zap.Logger, maxParallel int, scrapers ...Scraper) *Aggregator {
	if maxParallel <= 0 {
		maxParallel = len(scrapers)
	}
	return &Aggregator{
		scrapers:    scrapers,
		logger:      logger.Named("aggregator"),
		maxParallel: maxParallel,
	}
}

// Aggregate runs every scraper and returns the deduplicated union.
func (a *Aggregator) Aggregate(ctx context.Context) []RawOpportunity {
	results := make([][]RawOpportunity, len(a.scrapers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)

	for i, s := range a.scrapers {
		g.Go(func() error {
			opps, err := s.Scrape(gctx)
			if err != nil {
				a.logger.Error("scraper failed",
					zap.String("source", s.SourceName()), zap.Error(err))
				return nil
			}
			results[i] = opps
			a.logger.Info("scraper finished",
				zap.String("source", s.SourceName()), zap.Int("count", len(opps)))
			return nil
		})
	}
	// Workers never return errors; Wait is a join point only.
	_ = g.Wait()

	var merged []RawOpportunity
	for _, r := range results {
		merged = append(merged, r...)
	}

	unique := Deduplicate(merged)
	a.logger.Info("aggregation complete",
		zap.Int("raw", len(merged)), zap.Int("unique", len(unique)))
	return unique
}

// Deduplicate removes entries sharing a case-folded name+organization key,
// keeping the first occurrence.
func Deduplicate(opportunities []RawOpportunity) []RawOpportunity {
	seen := make(map[string]struct{}, len(opportunities))
	unique := make([]RawOpportunity, 0, len(opportunities))

	for _, opp := range opportunities {
		key := strings.ToLower(opp.Name) + "_" + strings.ToLower(opp.Organization)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, opp)
	}
	return unique
}
