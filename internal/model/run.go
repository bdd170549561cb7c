package model

import "time"

// ItemStatus is the terminal outcome of one work item within a run.
type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemFailed    ItemStatus = "failed"
	ItemSkipped   ItemStatus = "skipped"   // dedup hit or missing URL
	ItemExhausted ItemStatus = "exhausted" // retry ceiling reached
)

// Run records one batch execution.
type Run struct {
	ID             string
	Date           string // target date, YYYY-MM-DD
	StartedAt      time.Time
	FinishedAt     time.Time
	Processed      int
	Total          int
	NewsletterPath string
}

// RunItem records the outcome of a single work item within a run.
type RunItem struct {
	RunID       string
	PageID      string
	URL         string
	ContentType ContentType
	Status      ItemStatus
	Error       string
}
