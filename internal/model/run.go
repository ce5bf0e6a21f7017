package model

import (
	"time"
)

// RunStatus represents the current state of a classification run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted classification request.
type Run struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Mode        Mode      `json:"mode"`
	Status      RunStatus `json:"status"`
	Result      *Outcome  `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
