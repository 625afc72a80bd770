package scrape

import "context"

// RawOpportunity is the untrusted per-source shape. Adapters fill what they
// can; the converter owns defaults and normalization.
type RawOpportunity struct {
	Type             string          `json:"type"` // scholarship, hackathon, bounty, competition
	Name             string          `json:"name"`
	Organization     string          `json:"organization"`
	Amount           float64         `json:"amount"`
	AmountDisplay    string          `json:"amount_display"`
	Deadline         string          `json:"deadline"` // ISO date or empty
	DeadlineType     string          `json:"deadline_type"`
	URL              string          `json:"url"`
	Source           string          `json:"source"`
	Tags             []string        `json:"tags"`
	Eligibility      RawEligibility  `json:"eligibility"`
	Requirements     RawRequirements `json:"requirements"`
	Description      string          `json:"description"`
	CompetitionLevel string          `json:"competition_level"`
	DiscoveredAt     string          `json:"discovered_at"`
}

type RawEligibility struct {
	StudentsOnly bool     `json:"students_only"`
	GradeLevels  []string `json:"grade_levels"`
	Majors       []string `json:"majors"`
	GPAMin       *float64 `json:"gpa_min"`
	Citizenship  []string `json:"citizenship"`
	Geographic   []string `json:"geographic"`
	Other        string   `json:"other_requirements"`
}

type RawRequirements struct {
	EssayRequired bool     `json:"essay_required"`
	EssayCount    int      `json:"essay_count"`
	Letters       int      `json:"recommendation_letters"`
	Transcript    bool     `json:"transcript"`
	Resume        bool     `json:"resume"`
	EstimatedTime string   `json:"estimated_time"`
	SkillsNeeded  []string `json:"skills_needed"`
}

// Scraper is the contract every source adapter satisfies. Scrape returns a
// partial or empty list on failure, never an error for individual items;
// the error return is reserved for total source breakage and the aggregator
// treats it as a zero-result source.
type Scraper interface {
	Scrape(ctx context.Context) ([]RawOpportunity, error)
	SourceName() string
}
