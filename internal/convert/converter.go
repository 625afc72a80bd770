package convert

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/scrape"
)

// ConversionError marks a single raw item as unconvertible so callers can
// skip it and keep the batch moving.
type ConversionError struct {
	Source string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for %q: %s", e.Source, e.Reason)
}

// Opportunity maps an untrusted raw record into the canonical model. Every
// required field gets a type-safe default; it never panics on malformed
// input. Score, tier and priority are left zeroed here since the scoring
// engine recomputes them on every run.
func Opportunity(raw scrape.RawOpportunity) (models.Opportunity, error) {
	if raw.Name == "" {
		return models.Opportunity{}, &ConversionError{Source: raw.Source, Reason: "missing name"}
	}

	organization := raw.Organization
	if organization == "" {
		organization = "Unknown"
	}

	amount := raw.Amount
	if amount < 0 {
		amount = 0
	}

	amountDisplay := raw.AmountDisplay
	if amountDisplay == "" {
		amountDisplay = scrape.FormatAmount(amount)
	}

	// The deadline field is authoritative: rolling iff no date survives
	// normalization, regardless of what the source's deadline_type claimed.
	deadline := normalizeDeadline(raw.Deadline)
	deadlineType := models.DeadlineFixed
	if deadline == "" {
		deadlineType = models.DeadlineRolling
	}

	discoveredAt := time.Now().UTC()
	if raw.DiscoveredAt != "" {
		if t, err := time.Parse(time.RFC3339, raw.DiscoveredAt); err == nil {
			discoveredAt = t
		}
	}

	citizenship := ""
	if len(raw.Eligibility.Citizenship) > 0 && raw.Eligibility.Citizenship[0] != "Any" {
		citizenship = raw.Eligibility.Citizenship[0]
	}

	letters := raw.Requirements.Letters
	if letters < 0 {
		letters = 0
	}

	return models.Opportunity{
		ID:            uuid.New().String(),
		Name:          raw.Name,
		Organization:  organization,
		Amount:        amount,
		AmountDisplay: amountDisplay,
		Deadline:      deadline,
		DeadlineType:  deadlineType,
		Eligibility: models.Eligibility{
			GPAMin:         raw.Eligibility.GPAMin,
			GradesEligible: emptyIfNil(raw.Eligibility.GradeLevels),
			Majors:         raw.Eligibility.Majors,
			Citizenship:    citizenship,
			Backgrounds:    []string{},
			States:         nil,
		},
		Requirements: models.Requirements{
			Essay:                 raw.Requirements.EssayRequired || raw.Requirements.EssayCount > 0,
			EssayPrompts:          []string{},
			RecommendationLetters: letters,
			Transcript:            raw.Requirements.Transcript,
			Resume:                raw.Requirements.Resume,
			Other:                 emptyIfNil(raw.Requirements.SkillsNeeded),
		},
		Tags:             emptyIfNil(raw.Tags),
		Description:      raw.Description,
		CompetitionLevel: models.NormalizeCompetitionLevel(raw.CompetitionLevel),
		EstimatedTime:    raw.Requirements.EstimatedTime,
		SourceURL:        raw.URL,
		SourceType:       sourceType(raw.Source),
		DiscoveredAt:     discoveredAt,
		LastVerified:     discoveredAt,
	}, nil
}

// normalizeDeadline keeps only ISO dates; anything else is treated as absent
// so the urgency component can score it as unparsable rather than expired.
func normalizeDeadline(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}

func sourceType(source string) models.SourceType {
	switch source {
	case "scholarships", "curated":
		return models.SourceCurated
	case "ai_discovered":
		return models.SourceAIDiscovered
	default:
		return models.SourceScraped
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
