package model

import "time"

type JobStatus string

const (
	JobStatusCreated    JobStatus = "CREATED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the status absorbs further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo encodes the forward-only lifecycle:
// CREATED -> IN_PROGRESS -> {COMPLETED | FAILED}.
// The store does not enforce this; callers check before writing.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusCreated:
		return next == JobStatusInProgress
	case JobStatusInProgress:
		return next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

type JobType string

const (
	JobTypeResearch         JobType = "research"
	JobTypeSlack            JobType = "slack"
	JobTypeExternalResearch JobType = "external_research"
)

// Job is the unit of orchestrated work. (SessionID, ID) is the composite key;
// Instructions and ContextSummary are immutable after creation.
type Job struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Status         JobStatus `json:"status"`
	Type           JobType   `json:"job_type"`
	Instructions   string    `json:"instructions"`
	ContextSummary string    `json:"context_summary,omitempty"`
	Result         string    `json:"result"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewJob(sessionID string, jobType JobType, instructions, contextSummary string) *Job {
	now := time.Now().UTC()
	return &Job{
		SessionID:      sessionID,
		Status:         JobStatusCreated,
		Type:           jobType,
		Instructions:   instructions,
		ContextSummary: contextSummary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
