package enrich

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/ai"
	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/scrape"
)

const DefaultCacheTTL = 168 * time.Hour

// Result is the structured metadata the model extracts for one
// (opportunity, profile) pair.
type Result struct {
	Eligibility      models.Eligibility      `json:"eligibility"`
	Requirements     models.Requirements     `json:"requirements"`
	Tags             []string                `json:"tags"`
	MatchScore       float64                 `json:"match_score"`
	MatchTier        models.MatchTier        `json:"match_tier"`
	PriorityLevel    models.Priority         `json:"priority_level"`
	CompetitionLevel models.CompetitionLevel `json:"competition_level"`
	EstimatedTime    string                  `json:"estimated_time"`
}

// rawResult mirrors the JSON shape the prompt asks the model for.
type rawResult struct {
	Eligibility struct {
		GPAMin         *float64 `json:"gpa_min"`
		GradesEligible []string `json:"grades_eligible"`
		Majors         []string `json:"majors"`
		Gender         string   `json:"gender"`
		Citizenship    string   `json:"citizenship"`
		Backgrounds    []string `json:"backgrounds"`
		States         []string `json:"states"`
	} `json:"eligibility"`
	Requirements struct {
		Essay                 bool     `json:"essay"`
		EssayPrompts          []string `json:"essay_prompts"`
		RecommendationLetters int      `json:"recommendation_letters"`
		Transcript            bool     `json:"transcript"`
		Resume                bool     `json:"resume"`
		Other                 []string `json:"other"`
	} `json:"requirements"`
	Tags             []string `json:"tags"`
	MatchScore       float64  `json:"match_score"`
	MatchTier        string   `json:"match_tier"`
	PriorityLevel    string   `json:"priority_level"`
	CompetitionLevel string   `json:"competition_level"`
	EstimatedTime    string   `json:"estimated_time"`
}

type Config struct {
	CacheTTL   time.Duration
	BatchSize  int
	BatchDelay time.Duration
}

// Service enriches opportunities through the generative text port, with a
// result cache in front and an hourly call budget behind.
type Service struct {
	generator ai.TextGenerator
	cache     Cache
	limiter   Limiter
	logger    *zap.Logger
	config    Config
}

func NewService(generator ai.TextGenerator, cache Cache, limiter Limiter, logger *zap.Logger, config Config) *Service {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.BatchDelay <= 0 {
		config.BatchDelay = 2 * time.Second
	}
	return &Service{
		generator: generator,
		cache:     cache,
		limiter:   limiter,
		logger:    logger.Named("enrich"),
		config:    config,
	}
}

// Enrich produces structured metadata for one opportunity. A cache hit
// short-circuits the model call entirely; a limiter refusal surfaces as
// ErrRateLimited without touching the generator.
func (s *Service) Enrich(ctx context.Context, raw scrape.RawOpportunity, profile models.UserProfile) (Result, error) {
	key := cacheKey(raw.URL, profile.Name)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		s.logger.Debug("using cached enrichment", zap.String("source", raw.URL))
		return cached, nil
	}

	if err := s.limiter.Allow(ctx); err != nil {
		return Result{}, err
	}

	prompt := buildPrompt(raw, profile)
	response, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("enrichment call failed: %w", err)
	}

	result, parseErr := parseResponse(response)
	if parseErr != nil {
		// Fallback policy: a malformed response degrades to neutral
		// defaults so the batch keeps moving.
		s.logger.Warn("failed to parse enrichment response, using defaults",
			zap.String("source", raw.URL), zap.Error(parseErr))
		return defaultResult(), nil
	}

	if err := s.cache.Set(ctx, key, result, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache enrichment result", zap.Error(err))
	}

	return result, nil
}

// EnrichBatch processes opportunities in fixed-size chunks with a delay
// between chunks to smooth burst load against the hourly budget. The
// returned slice is index-aligned with the input; entries that were rate
// limited or failed are nil.
func (s *Service) EnrichBatch(ctx context.Context, raws []scrape.RawOpportunity, profile models.UserProfile) []*Result {
	results := make([]*Result, len(raws))

	for start := 0; start < len(raws); start += s.config.BatchSize {
		end := start + s.config.BatchSize
		if end > len(raws) {
			end = len(raws)
		}

		for i := start; i < end; i++ {
			result, err := s.Enrich(ctx, raws[i], profile)
			if err != nil {
				if err == ErrRateLimited {
					s.logger.Warn("enrichment budget exhausted, skipping remainder",
						zap.Int("processed", i))
					return results
				}
				s.logger.Warn("enrichment failed",
					zap.String("source", raws[i].URL), zap.Error(err))
				continue
			}
			results[i] = &result
		}

		if end < len(raws) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(s.config.BatchDelay):
			}
		}
	}

	return results
}

func cacheKey(sourceURL, profileName string) string {
	sum := sha256.Sum256([]byte(sourceURL + "_" + profileName))
	return fmt.Sprintf("%x", sum)
}

func buildPrompt(raw scrape.RawOpportunity, profile models.UserProfile) string {
	return fmt.Sprintf(`You are an expert scholarship analyst. Analyze this opportunity and provide structured data.

OPPORTUNITY DATA:
Name: %s
Organization: %s
Amount: $%.0f
Deadline: %s
Description: %s

USER PROFILE:
Academic Status: %s
School: %s
GPA: %s
Major: %s
Background: %s
Financial Need: %s
Interests: %s

TASK:
Provide a JSON response with the following structure (respond ONLY with valid JSON, no additional text):

{
  "eligibility": {
    "gpa_min": <float or null>,
    "grades_eligible": [<list of grade levels: "High School Senior", "Undergraduate", "Graduate", etc.>],
    "majors": [<list of eligible majors or null if any>],
    "gender": <string or null>,
    "citizenship": <string or null>,
    "backgrounds": [<list: "First-generation", "Minority", "LGBTQ+", "Low-income", "Veteran", etc.>],
    "states": [<list of state codes or null if nationwide>]
  },
  "requirements": {
    "essay": <true/false>,
    "essay_prompts": [<list of essay prompts if applicable>],
    "recommendation_letters": <integer count>,
    "transcript": <true/false>,
    "resume": <true/false>,
    "other": [<list of other requirements>]
  },
  "tags": [<3-5 relevant tags like "STEM", "Need-Based", "Merit-Based", "Leadership", etc.>],
  "match_score": <0-100 integer>,
  "match_tier": <"Excellent", "Good", "Fair", or "Poor">,
  "priority_level": <"URGENT", "HIGH", "MEDIUM", or "LOW">,
  "competition_level": <"Low", "Medium", or "High">,
  "estimated_time": <string like "2 hours" or "4-6 hours">
}

Respond with ONLY the JSON object, no markdown formatting or additional text.`,
		raw.Name,
		raw.Organization,
		raw.Amount,
		orNotSpecified(raw.Deadline),
		orNotSpecified(raw.Description),
		orNotSpecified(profile.AcademicStatus),
		orNotSpecified(profile.School),
		floatOrNotSpecified(profile.GPA),
		orNotSpecified(profile.Major),
		listOrNotSpecified(profile.Background),
		floatOrNotSpecified(profile.FinancialNeed),
		listOrNotSpecified(profile.Interests),
	)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func listOrNotSpecified(items []string) string {
	if len(items) == 0 {
		return "Not specified"
	}
	return strings.Join(items, ", ")
}

func floatOrNotSpecified(v *float64) string {
	if v == nil {
		return "Not specified"
	}
	return fmt.Sprintf("%g", *v)
}

// stripCodeFence removes optional markdown code-fence markers around a JSON
// payload.
func stripCodeFence(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func parseResponse(text string) (Result, error) {
	var raw rawResult
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return Result{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if raw.MatchScore < 0 || raw.MatchScore > 100 {
		return Result{}, fmt.Errorf("match_score %v out of range", raw.MatchScore)
	}

	result := Result{
		Eligibility: models.Eligibility{
			GPAMin:         raw.Eligibility.GPAMin,
			GradesEligible: raw.Eligibility.GradesEligible,
			Majors:         raw.Eligibility.Majors,
			Gender:         raw.Eligibility.Gender,
			Citizenship:    raw.Eligibility.Citizenship,
			Backgrounds:    raw.Eligibility.Backgrounds,
			States:         raw.Eligibility.States,
		},
		Requirements: models.Requirements{
			Essay:                 raw.Requirements.Essay,
			EssayPrompts:          raw.Requirements.EssayPrompts,
			RecommendationLetters: raw.Requirements.RecommendationLetters,
			Transcript:            raw.Requirements.Transcript,
			Resume:                raw.Requirements.Resume,
			Other:                 raw.Requirements.Other,
		},
		Tags:             raw.Tags,
		MatchScore:       raw.MatchScore,
		MatchTier:        models.TierForScore(raw.MatchScore),
		PriorityLevel:    normalizePriority(raw.PriorityLevel),
		CompetitionLevel: models.NormalizeCompetitionLevel(raw.CompetitionLevel),
		EstimatedTime:    raw.EstimatedTime,
	}
	if result.EstimatedTime == "" {
		result.EstimatedTime = "2-3 hours"
	}
	return result, nil
}

func normalizePriority(s string) models.Priority {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "URGENT":
		return models.PriorityUrgent
	case "HIGH":
		return models.PriorityHigh
	case "LOW":
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

// defaultResult is the neutral fallback used when the model's response
// cannot be parsed.
func defaultResult() Result {
	return Result{
		Eligibility:      models.Eligibility{GradesEligible: []string{}, Backgrounds: []string{}},
		Requirements:     models.Requirements{EssayPrompts: []string{}, Other: []string{}},
		Tags:             []string{},
		MatchScore:       50,
		MatchTier:        models.TierFair,
		PriorityLevel:    models.PriorityMedium,
		CompetitionLevel: models.CompetitionMedium,
		EstimatedTime:    "2-3 hours",
	}
}
