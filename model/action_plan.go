// Package model - ActionPlan is a remediation plan attached to an application
package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// ActionPlanStatus is the progress of an action plan
type ActionPlanStatus string

const (
	// PlanPlanned is the default state of a new plan.
	PlanPlanned ActionPlanStatus = "planned"
	// PlanInProgress means the work has started.
	PlanInProgress ActionPlanStatus = "in_progress"
	// PlanDone means the plan is complete.
	PlanDone ActionPlanStatus = "done"
	// PlanBlocked means the plan cannot progress.
	PlanBlocked ActionPlanStatus = "blocked"
)

// IsValid reports whether s is one of the known plan states.
func (s ActionPlanStatus) IsValid() bool {
	switch s {
	case PlanPlanned, PlanInProgress, PlanDone, PlanBlocked:
		return true
	}
	return false
}

// Remediation returns the remediation status a linked version takes when the
// plan reaches s. ok is false for blocked plans, which leave the version as is.
func (s ActionPlanStatus) Remediation() (status RemediationStatus, ok bool) {
	switch s {
	case PlanPlanned:
		return RemediationPlanned, true
	case PlanInProgress:
		return RemediationInProgress, true
	case PlanDone:
		return RemediationDone, true
	}
	return "", false
}

// ActionPlan is the remediation work planned for an application, optionally
// for one of its versions.
type ActionPlan struct {
	Key            string           `json:"_key,omitempty"`
	ApplicationKey string           `json:"application_key"`
	VersionKey     string           `json:"version_key,omitempty"`
	Title          string           `json:"title"`
	Owner          string           `json:"owner,omitempty"`
	DueDate        *civil.Date      `json:"due_date"`
	Status         ActionPlanStatus `json:"status"`
	Notes          string           `json:"notes,omitempty"`
	ObjType        string           `json:"objtype,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewActionPlan creates a planned action plan
func NewActionPlan(applicationKey, title string) *ActionPlan {
	now := time.Now().UTC()
	return &ActionPlan{
		ApplicationKey: applicationKey,
		Title:          title,
		Status:         PlanPlanned,
		ObjType:        "ActionPlan",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ActionPlanUpdate is a partial update; nil fields are left unchanged
type ActionPlanUpdate struct {
	Title   *string           `json:"title"`
	Owner   *string           `json:"owner"`
	DueDate *civil.Date       `json:"due_date"`
	Status  *ActionPlanStatus `json:"status"`
	Notes   *string           `json:"notes"`
}

// Apply copies the set fields onto p and returns the names of the changed ones
func (u ActionPlanUpdate) Apply(p *ActionPlan) []string {
	var changed []string
	if u.Title != nil && *u.Title != p.Title {
		p.Title = *u.Title
		changed = append(changed, "title")
	}
	if u.Owner != nil && *u.Owner != p.Owner {
		p.Owner = *u.Owner
		changed = append(changed, "owner")
	}
	if u.DueDate != nil && (p.DueDate == nil || *u.DueDate != *p.DueDate) {
		due := *u.DueDate
		p.DueDate = &due
		changed = append(changed, "due_date")
	}
	if u.Status != nil && *u.Status != p.Status {
		p.Status = *u.Status
		changed = append(changed, "status")
	}
	if u.Notes != nil && *u.Notes != p.Notes {
		p.Notes = *u.Notes
		changed = append(changed, "notes")
	}
	if len(changed) > 0 {
		p.UpdatedAt = time.Now().UTC()
	}
	return changed
}
