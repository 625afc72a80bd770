package models

import "strings"

type MatchTier string

const (
	TierExcellent MatchTier = "Excellent"
	TierGood      MatchTier = "Good"
	TierFair      MatchTier = "Fair"
	TierPoor      MatchTier = "Poor"
)

// TierForScore maps a 0-100 match score to its tier.
func TierForScore(score float64) MatchTier {
	switch {
	case score >= 85:
		return TierExcellent
	case score >= 70:
		return TierGood
	case score >= 50:
		return TierFair
	default:
		return TierPoor
	}
}

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "Low"
	CompetitionMedium CompetitionLevel = "Medium"
	CompetitionHigh   CompetitionLevel = "High"
)

// NormalizeCompetitionLevel folds source casing and common aliases to the
// canonical level. Unknown values fall back to Medium.
func NormalizeCompetitionLevel(s string) CompetitionLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "beginner", "easy":
		return CompetitionLow
	case "high", "advanced", "hard":
		return CompetitionHigh
	default:
		return CompetitionMedium
	}
}

type DeadlineType string

const (
	DeadlineRolling DeadlineType = "rolling"
	DeadlineFixed   DeadlineType = "fixed"
)

type SourceType string

const (
	SourceScraped      SourceType = "scraped"
	SourceAIDiscovered SourceType = "ai_discovered"
	SourceCurated      SourceType = "curated"
)
