// Package match implements the deterministic scoring engine. Scores are
// recomputed from the (opportunity, profile) pair on every discovery run and
// never trusted from a cached value.
package match

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/scholarstream/scholarstream/internal/models"
)

// Component weights, summing to 100.
const (
	weightEligibility = 30.0
	weightInterest    = 25.0
	weightUrgency     = 20.0
	weightValue       = 15.0
	weightEffort      = 10.0
)

// Score computes the 0-100 match score for one opportunity against one
// profile. An eligibility component below 0.5 is a hard gate: the total is
// forced to 0 and Rank excludes the opportunity entirely.
func Score(opp models.Opportunity, profile models.UserProfile) float64 {
	return scoreAt(opp, profile, time.Now())
}

func scoreAt(opp models.Opportunity, profile models.UserProfile, now time.Time) float64 {
	eligibility := eligibilityComponent(opp.Eligibility, profile)
	if eligibility < 0.5 {
		return 0
	}

	total := eligibility*weightEligibility +
		interestComponent(opp, profile)*weightInterest +
		urgencyComponent(opp.Deadline, now)*weightUrgency +
		valueComponent(opp.Amount, profile.FinancialNeed)*weightValue +
		effortComponent(opp.Requirements)*weightEffort

	return math.Round(total*100) / 100
}

// eligibilityComponent returns 0..1. Grade-level mismatch is a hard
// disqualification; GPA shortfall and restricted-major mismatch are severe
// multipliers rather than exclusions.
func eligibilityComponent(elig models.Eligibility, profile models.UserProfile) float64 {
	score := 1.0

	if elig.GPAMin != nil {
		if profile.GPA == nil || *profile.GPA < *elig.GPAMin {
			score *= 0.3
		}
	}

	if len(elig.GradesEligible) > 0 && profile.AcademicStatus != "" {
		if !gradeMatches(elig.GradesEligible, profile.AcademicStatus) {
			return 0
		}
	}

	if len(elig.Majors) > 0 && profile.Major != "" {
		if !majorMatches(elig.Majors, profile.Major) {
			score *= 0.6
		}
	}

	return score
}

// gradeMatches folds case and the snake_case forms some sources emit, so
// "high_school_senior" accepts an academic status of "High School Senior".
func gradeMatches(grades []string, status string) bool {
	normalized := normalizeGrade(status)
	for _, g := range grades {
		if normalizeGrade(g) == normalized {
			return true
		}
	}
	return false
}

func normalizeGrade(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", " ")
}

// majorMatches accepts substring containment either way, so "Computer
// Science" satisfies a "Computer Science & Engineering" restriction and a
// "STEM" restriction list containing "Computer Science".
func majorMatches(majors []string, major string) bool {
	majorLower := strings.ToLower(major)
	for _, m := range majors {
		mLower := strings.ToLower(strings.TrimSpace(m))
		if mLower == "" || mLower == "any" {
			return true
		}
		if strings.Contains(majorLower, mLower) || strings.Contains(mLower, majorLower) {
			return true
		}
	}
	return false
}

// interestComponent is Jaccard similarity between profile interests and
// opportunity tags, with a +0.3 bonus (capped at 1.0) when the profile's
// major exactly matches a tag.
func interestComponent(opp models.Opportunity, profile models.UserProfile) float64 {
	similarity := jaccard(profile.Interests, opp.Tags)

	if profile.Major != "" && containsFold(opp.Tags, profile.Major) {
		similarity += 0.3
	}
	if similarity > 1.0 {
		similarity = 1.0
	}
	return similarity
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := toFoldSet(a)
	setB := toFoldSet(b)

	intersection := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// urgencyComponent scores the deadline window. 7-60 days out is the sweet
// spot; under 7 is urgent but doable; past deadlines score zero; missing or
// unparsable dates are neutral; far-future dates sit slightly below the
// sweet spot.
func urgencyComponent(deadline string, now time.Time) float64 {
	if deadline == "" {
		return 0.5
	}

	t, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return 0.5
	}

	days := t.Sub(now).Hours() / 24
	switch {
	case days < 0:
		return 0.0
	case days < 7:
		return 0.8
	case days <= 60:
		return 1.0
	default:
		return 0.6
	}
}

// valueComponent buckets the award-to-need ratio. Unknown or zero need is
// neutral.
func valueComponent(amount float64, need *float64) float64 {
	if need == nil || *need <= 0 {
		return 0.5
	}

	ratio := amount / *need
	switch {
	case ratio >= 0.8:
		return 1.0
	case ratio >= 0.5:
		return 0.8
	case ratio >= 0.2:
		return 0.6
	default:
		return 0.4
	}
}

// effortComponent estimates application hours and rewards low-effort
// applications.
func effortComponent(req models.Requirements) float64 {
	hours := 2.0
	if req.Essay {
		essays := len(req.EssayPrompts)
		if essays == 0 {
			essays = 1
		}
		hours += 3.0 * float64(essays)
	}
	hours += float64(req.RecommendationLetters)
	if req.Transcript {
		hours += 0.5
	}
	if req.Resume {
		hours += 0.5
	}

	switch {
	case hours <= 5:
		return 1.0
	case hours <= 10:
		return 0.8
	default:
		return 0.5
	}
}

// priorityFor derives the surfacing priority from deadline proximity, award
// size and score.
func priorityFor(opp models.Opportunity, score float64, now time.Time) models.Priority {
	days := math.Inf(1)
	if opp.Deadline != "" {
		if t, err := time.Parse("2006-01-02", opp.Deadline); err == nil {
			days = t.Sub(now).Hours() / 24
		}
	}

	switch {
	case days <= 2 && score >= 70:
		return models.PriorityUrgent
	case days <= 7 || opp.Amount >= 10000:
		return models.PriorityHigh
	case opp.Amount >= 5000 || score >= 80:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// Apply stamps the computed score and its derived fields onto the
// opportunity.
func Apply(opp *models.Opportunity, profile models.UserProfile) {
	applyAt(opp, profile, time.Now())
}

func applyAt(opp *models.Opportunity, profile models.UserProfile, now time.Time) {
	score := scoreAt(*opp, profile, now)
	opp.MatchScore = score
	opp.MatchTier = models.TierForScore(score)
	opp.PriorityLevel = priorityFor(*opp, score, now)
	opp.ExpectedValue = opp.Amount * score / 100
}

// Rank scores every opportunity, drops hard-gated ones, and sorts the rest
// by score descending. Ties keep input order so repeated runs over the same
// set are stable.
func Rank(opportunities []models.Opportunity, profile models.UserProfile) []models.Opportunity {
	now := time.Now()

	ranked := make([]models.Opportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		applyAt(&opp, profile, now)
		if opp.MatchScore <= 0 {
			continue
		}
		ranked = append(ranked, opp)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

func toFoldSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := strings.ToLower(strings.TrimSpace(item))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
