// Package model - dashboard metrics returned by the metrics aggregator
package model

import "cloud.google.com/go/civil"

// RemediationStat counts versions in one remediation state
type RemediationStat struct {
	Status RemediationStatus `json:"status"`
	Count  int               `json:"count"`
}

// ProjectCriticityStat counts applications of a project at one criticity level
type ProjectCriticityStat struct {
	Project   string    `json:"project"`
	Criticity Criticity `json:"criticity"`
	Count     int       `json:"count"`
}

// DependencyAlert is a shared-dependency risk cluster: two or more applications
// relying on the same dependency name with the same end of support.
type DependencyAlert struct {
	DependencyName string      `json:"dependency_name"`
	SharedBy       []string    `json:"shared_by"`
	EndOfSupport   *civil.Date `json:"end_of_support"`
	UrgencyColor   string      `json:"urgency_color"`
}

// PriorityItem is one row of the top-priority table
type PriorityItem struct {
	Type        string `json:"type"` // "version" or "dependency"
	Application string `json:"application"`
	Label       string `json:"label"`
	Deadline    string `json:"deadline"` // ISO date, "" when unknown
	Criticity   string `json:"criticity"`
}

// DashboardMetrics is the full dashboard summary
type DashboardMetrics struct {
	TotalItems             int                    `json:"total_items"`
	ObsoleteCount          int                    `json:"obsolete_count"`
	ExpiringSoon           map[string]int         `json:"expiring_soon"`
	RemediationStats       []RemediationStat      `json:"remediation_stats"`
	TimelineHistogram      map[string]int         `json:"timeline_histogram"`
	ProjectCriticity       []ProjectCriticityStat `json:"project_criticity"`
	SharedDependencyAlerts []DependencyAlert      `json:"shared_dependency_alerts"`
	TopPriorities          []PriorityItem         `json:"top_priorities"`
}
