// Package discovery ties the pipeline together: scrape, convert, enrich,
// score, persist. A warm opportunity set answers synchronously; a cold one
// starts a tracked background job and returns a handle to poll.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/convert"
	"github.com/scholarstream/scholarstream/internal/enrich"
	"github.com/scholarstream/scholarstream/internal/jobs"
	"github.com/scholarstream/scholarstream/internal/match"
	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/scrape"
	"github.com/scholarstream/scholarstream/internal/store"
)

// Sourcer produces raw opportunities from all registered sources.
type Sourcer interface {
	Aggregate(ctx context.Context) []scrape.RawOpportunity
}

// Enricher overlays model-extracted metadata onto raw opportunities. A nil
// entry means that opportunity keeps its scraped fields as-is.
type Enricher interface {
	EnrichBatch(ctx context.Context, raws []scrape.RawOpportunity, profile models.UserProfile) []*enrich.Result
}

type Config struct {
	TopResults int
	// BackgroundTimeout bounds one full pipeline run.
	BackgroundTimeout time.Duration
	// EstimatedSecondsPerSource feeds the completion estimate returned to
	// clients on the slow path.
	EstimatedSecondsPerSource int
	SourceCount               int
}

type Orchestrator struct {
	store    store.Store
	tracker  *jobs.Tracker
	runner   *Runner
	sources  Sourcer
	enricher Enricher
	logger   *zap.Logger
	config   Config
}

func NewOrchestrator(s store.Store, tracker *jobs.Tracker, runner *Runner, sources Sourcer, enricher Enricher, logger *zap.Logger, config Config) *Orchestrator {
	if config.TopResults <= 0 {
		config.TopResults = 30
	}
	if config.BackgroundTimeout <= 0 {
		config.BackgroundTimeout = 10 * time.Minute
	}
	if config.EstimatedSecondsPerSource <= 0 {
		config.EstimatedSecondsPerSource = 15
	}
	return &Orchestrator{
		store:    s,
		tracker:  tracker,
		runner:   runner,
		sources:  sources,
		enricher: enricher,
		logger:   logger.Named("discovery"),
		config:   config,
	}
}

// Discover serves a matching request. When the shared opportunity set is
// already populated it ranks against the profile and answers immediately;
// otherwise it starts a background discovery run and returns a job handle.
func (o *Orchestrator) Discover(ctx context.Context, userID string, profile models.UserProfile) (models.DiscoveryResponse, error) {
	existing, err := o.store.ListOpportunities(ctx)
	if err != nil {
		return models.DiscoveryResponse{}, fmt.Errorf("failed to list opportunities: %w", err)
	}

	if len(existing) > 0 {
		return o.discoverFromCache(ctx, userID, profile, existing)
	}

	jobID := uuid.New().String()
	if _, err := o.tracker.Create(ctx, jobID, userID); err != nil {
		return models.DiscoveryResponse{}, err
	}

	submitted := o.runner.Submit(func(runCtx context.Context) {
		runCtx, cancel := context.WithTimeout(runCtx, o.config.BackgroundTimeout)
		defer cancel()
		o.runDiscovery(runCtx, jobID, userID, profile)
	})
	if !submitted {
		_ = o.tracker.Fail(ctx, jobID)
		return models.DiscoveryResponse{}, errors.New("discovery queue is full")
	}

	return models.DiscoveryResponse{
		Status:              models.JobProcessing,
		JobID:               jobID,
		EstimatedCompletion: o.config.SourceCount * o.config.EstimatedSecondsPerSource,
	}, nil
}

func (o *Orchestrator) discoverFromCache(ctx context.Context, userID string, profile models.UserProfile, existing []models.Opportunity) (models.DiscoveryResponse, error) {
	ranked := match.Rank(existing, profile)
	top := ranked
	if len(top) > o.config.TopResults {
		top = top[:o.config.TopResults]
	}

	ids := make([]string, len(ranked))
	for i, opp := range ranked {
		ids[i] = opp.ID
	}
	if err := o.store.SaveUserMatches(ctx, userID, ids); err != nil {
		return models.DiscoveryResponse{}, fmt.Errorf("failed to save matches: %w", err)
	}

	o.logger.Info("served discovery from warm opportunity set",
		zap.String("user_id", userID),
		zap.Int("matched", len(ranked)))

	return models.DiscoveryResponse{
		Status:           models.JobCompleted,
		ImmediateResults: top,
		TotalFound:       len(ranked),
	}, nil
}

// runDiscovery is the slow path: full scrape, conversion, enrichment,
// scoring, persistence. Progress checkpoints let pollers see movement.
func (o *Orchestrator) runDiscovery(ctx context.Context, jobID, userID string, profile models.UserProfile) {
	raws := o.sources.Aggregate(ctx)
	_ = o.tracker.UpdateProgress(ctx, jobID, 40, 0)

	var results []*enrich.Result
	if o.enricher != nil {
		results = o.enricher.EnrichBatch(ctx, raws, profile)
	}
	_ = o.tracker.UpdateProgress(ctx, jobID, 60, 0)

	opportunities := make([]models.Opportunity, 0, len(raws))
	for i, raw := range raws {
		opp, err := convert.Opportunity(raw)
		if err != nil {
			o.logger.Warn("skipping unconvertible opportunity",
				zap.String("source", raw.Source), zap.Error(err))
			continue
		}
		if i < len(results) && results[i] != nil {
			applyEnrichment(&opp, results[i])
		}
		opportunities = append(opportunities, opp)
	}
	_ = o.tracker.UpdateProgress(ctx, jobID, 75, len(opportunities))

	ranked := match.Rank(opportunities, profile)

	for _, opp := range ranked {
		if err := o.store.SaveOpportunity(ctx, opp); err != nil {
			o.logger.Error("failed to persist opportunity",
				zap.String("job_id", jobID), zap.Error(err))
			_ = o.tracker.Fail(ctx, jobID)
			return
		}
	}

	ids := make([]string, len(ranked))
	for i, opp := range ranked {
		ids[i] = opp.ID
	}
	if err := o.store.SaveUserMatches(ctx, userID, ids); err != nil {
		o.logger.Error("failed to persist matches",
			zap.String("job_id", jobID), zap.Error(err))
		_ = o.tracker.Fail(ctx, jobID)
		return
	}

	if err := o.tracker.Complete(ctx, jobID, len(ranked)); err != nil {
		o.logger.Error("failed to complete job",
			zap.String("job_id", jobID), zap.Error(err))
	}
}

// applyEnrichment overlays extracted metadata where it improves on the
// scraped fields. Score, tier and priority are not copied: the scoring
// engine recomputes them deterministically afterwards.
func applyEnrichment(opp *models.Opportunity, result *enrich.Result) {
	if result.Eligibility.GPAMin != nil {
		opp.Eligibility.GPAMin = result.Eligibility.GPAMin
	}
	if len(result.Eligibility.GradesEligible) > 0 {
		opp.Eligibility.GradesEligible = result.Eligibility.GradesEligible
	}
	if len(result.Eligibility.Majors) > 0 {
		opp.Eligibility.Majors = result.Eligibility.Majors
	}
	if result.Eligibility.Gender != "" {
		opp.Eligibility.Gender = result.Eligibility.Gender
	}
	if result.Eligibility.Citizenship != "" {
		opp.Eligibility.Citizenship = result.Eligibility.Citizenship
	}
	if len(result.Eligibility.Backgrounds) > 0 {
		opp.Eligibility.Backgrounds = result.Eligibility.Backgrounds
	}
	if len(result.Eligibility.States) > 0 {
		opp.Eligibility.States = result.Eligibility.States
	}
	if result.Requirements.Essay || result.Requirements.RecommendationLetters > 0 {
		opp.Requirements = result.Requirements
	}
	if len(result.Tags) > 0 {
		opp.Tags = mergeTags(opp.Tags, result.Tags)
	}
	if result.CompetitionLevel != "" {
		opp.CompetitionLevel = result.CompetitionLevel
	}
	if result.EstimatedTime != "" {
		opp.EstimatedTime = result.EstimatedTime
	}
}

func mergeTags(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing)+len(extra))
	for _, t := range existing {
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range extra {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}

// JobStatus returns the polling view of a background run.
func (o *Orchestrator) JobStatus(ctx context.Context, jobID string) (models.JobStatusResponse, error) {
	job, err := o.tracker.Get(ctx, jobID)
	if err != nil {
		return models.JobStatusResponse{}, err
	}
	return models.JobStatusResponse{
		Status:     job.Status,
		Progress:   job.Progress,
		TotalFound: job.ScholarshipsFound,
	}, nil
}

// Matched returns the user's ranked opportunity list in stored order.
func (o *Orchestrator) Matched(ctx context.Context, userID string) ([]models.Opportunity, error) {
	ids, err := o.store.GetUserMatches(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.Opportunity{}, nil
		}
		return nil, err
	}

	matched := make([]models.Opportunity, 0, len(ids))
	for _, id := range ids {
		opp, err := o.store.GetOpportunity(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		matched = append(matched, opp)
	}
	return matched, nil
}
