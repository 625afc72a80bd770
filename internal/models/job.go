package models

import "time"

type JobStatus string

const (
	JobIdle       JobStatus = "idle"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is accepted.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

type DiscoveryJob struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Status            JobStatus `json:"status"`
	Progress          float64   `json:"progress"`
	ScholarshipsFound int       `json:"scholarshipsFound"`
	StartedAt         time.Time `json:"startedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DiscoveryResponse is returned by both discovery paths. ImmediateResults is
// populated only when a warm cache let the run complete synchronously.
type DiscoveryResponse struct {
	Status              JobStatus     `json:"status"`
	JobID               string        `json:"jobId"`
	ImmediateResults    []Opportunity `json:"immediateResults,omitempty"`
	EstimatedCompletion int           `json:"estimatedCompletion"` // seconds
	TotalFound          int           `json:"totalFound"`
}

type JobStatusResponse struct {
	Status     JobStatus `json:"status"`
	Progress   float64   `json:"progress"`
	TotalFound int       `json:"totalFound"`
}
