// Package model - AlertRunSummary reports one pass of the daily alert job
package model

import "time"

// Alert run triggers
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// AlertRunSummary counts what a single alert job pass did
type AlertRunSummary struct {
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Processed  int       `json:"processed"`
	Sent       int       `json:"sent"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
}
