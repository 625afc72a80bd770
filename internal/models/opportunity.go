package models

import "time"

type Opportunity struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Organization     string           `json:"organization"`
	Amount           float64          `json:"amount"`
	AmountDisplay    string           `json:"amountDisplay"`
	Deadline         string           `json:"deadline"` // ISO date, empty for rolling
	DeadlineType     DeadlineType     `json:"deadlineType"`
	Eligibility      Eligibility      `json:"eligibility"`
	Requirements     Requirements     `json:"requirements"`
	MatchScore       float64          `json:"matchScore"`
	MatchTier        MatchTier        `json:"matchTier"`
	PriorityLevel    Priority         `json:"priorityLevel"`
	Tags             []string         `json:"tags"`
	Description      string           `json:"description"`
	CompetitionLevel CompetitionLevel `json:"competitionLevel"`
	EstimatedTime    string           `json:"estimatedTime"`
	ExpectedValue    float64          `json:"expectedValue"`
	SourceURL        string           `json:"sourceUrl"`
	SourceType       SourceType       `json:"sourceType"`
	DiscoveredAt     time.Time        `json:"discoveredAt"`
	LastVerified     time.Time        `json:"lastVerified"`
}

// Eligibility constrains who may apply. Nil Majors/States mean open to all.
type Eligibility struct {
	GPAMin         *float64 `json:"gpaMin,omitempty"`
	GradesEligible []string `json:"gradesEligible"`
	Majors         []string `json:"majors,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Citizenship    string   `json:"citizenship,omitempty"`
	Backgrounds    []string `json:"backgrounds"`
	States         []string `json:"states,omitempty"`
}

type Requirements struct {
	Essay                 bool     `json:"essay"`
	EssayPrompts          []string `json:"essayPrompts"`
	RecommendationLetters int      `json:"recommendationLetters"`
	Transcript            bool     `json:"transcript"`
	Resume                bool     `json:"resume"`
	Other                 []string `json:"other"`
}
