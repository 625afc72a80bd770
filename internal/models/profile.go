package models

// UserProfile is the matching side of every scoring call. Optional numeric
// fields use pointers so "not provided" is distinguishable from zero.
type UserProfile struct {
	Name           string   `json:"name"`
	AcademicStatus string   `json:"academicStatus"`
	School         string   `json:"school,omitempty"`
	Year           string   `json:"year,omitempty"`
	Major          string   `json:"major,omitempty"`
	GPA            *float64 `json:"gpa,omitempty"`
	GraduationYear int      `json:"graduationYear,omitempty"`
	Background     []string `json:"background"`
	FinancialNeed  *float64 `json:"financialNeed,omitempty"`
	Interests      []string `json:"interests"`
}
