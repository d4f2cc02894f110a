package model

import "time"

// RunStatus tracks a parse run through the ledger.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunCounts summarizes what one parse run produced.
type RunCounts struct {
	Messages     int `json:"messages"`
	Transactions int `json:"transactions"`
	Errors       int `json:"errors"`
	Customers    int `json:"customers"`
}

// Run is one recorded invocation of the parse command.
type Run struct {
	ID         string    `json:"id"`
	Platform   Platform  `json:"platform"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Status     RunStatus `json:"status"`
	Counts     RunCounts `json:"counts"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}
