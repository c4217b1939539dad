package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/util"
)

// MetricsService computes the dashboard summary
type MetricsService interface {
	ComputeMetrics(ctx context.Context) (model.DashboardMetrics, error)
}

// UpcomingSource lists items reaching their end of support
type UpcomingSource interface {
	Upcoming(ctx context.Context, withinMonths int) ([]notify.Alert, error)
}

// Resolvers holds the services the dashboard queries read from
type Resolvers struct {
	Metrics  MetricsService
	Upcoming UpcomingSource
	Location *time.Location
}

func bucketRows(expiring map[string]int) []map[string]interface{} {
	rows := []map[string]interface{}{}
	for _, label := range util.Buckets() {
		rows = append(rows, map[string]interface{}{"label": label, "count": expiring[label]})
	}
	return rows
}

func periodRows(histogram map[string]int) []map[string]interface{} {
	periods := make([]string, 0, len(histogram))
	for p := range histogram {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	rows := []map[string]interface{}{}
	for _, p := range periods {
		rows = append(rows, map[string]interface{}{"period": p, "count": histogram[p]})
	}
	return rows
}

func alertRows(alerts []model.DependencyAlert) []map[string]interface{} {
	rows := []map[string]interface{}{}
	for _, a := range alerts {
		rows = append(rows, map[string]interface{}{
			"dependency_name": a.DependencyName,
			"shared_by":       a.SharedBy,
			"end_of_support":  util.FormatDate(a.EndOfSupport),
			"urgency_color":   a.UrgencyColor,
		})
	}
	return rows
}

func priorityRows(items []model.PriorityItem) []map[string]interface{} {
	rows := []map[string]interface{}{}
	for _, p := range items {
		rows = append(rows, map[string]interface{}{
			"type":        p.Type,
			"application": p.Application,
			"label":       p.Label,
			"deadline":    p.Deadline,
			"criticity":   p.Criticity,
		})
	}
	return rows
}

// ResolveMetrics returns the full dashboard summary
func (r *Resolvers) ResolveMetrics(ctx context.Context) (map[string]interface{}, error) {
	m, err := r.Metrics.ComputeMetrics(ctx)
	if err != nil {
		return nil, err
	}

	remediation := []map[string]interface{}{}
	for _, s := range m.RemediationStats {
		remediation = append(remediation, map[string]interface{}{"status": string(s.Status), "count": s.Count})
	}

	projects := []map[string]interface{}{}
	for _, s := range m.ProjectCriticity {
		projects = append(projects, map[string]interface{}{"project": s.Project, "criticity": string(s.Criticity), "count": s.Count})
	}

	return map[string]interface{}{
		"total_items":              m.TotalItems,
		"obsolete_count":           m.ObsoleteCount,
		"expiring_soon":            bucketRows(m.ExpiringSoon),
		"remediation_stats":        remediation,
		"timeline_histogram":       periodRows(m.TimelineHistogram),
		"project_criticity":        projects,
		"shared_dependency_alerts": alertRows(m.SharedDependencyAlerts),
		"top_priorities":           priorityRows(m.TopPriorities),
	}, nil
}

// ResolveExpiry returns the time-to-expiry histogram
func (r *Resolvers) ResolveExpiry(ctx context.Context) ([]map[string]interface{}, error) {
	m, err := r.Metrics.ComputeMetrics(ctx)
	if err != nil {
		return nil, err
	}
	return bucketRows(m.ExpiringSoon), nil
}

// ResolveSharedDependencies returns the shared-dependency risk clusters
func (r *Resolvers) ResolveSharedDependencies(ctx context.Context) ([]map[string]interface{}, error) {
	m, err := r.Metrics.ComputeMetrics(ctx)
	if err != nil {
		return nil, err
	}
	return alertRows(m.SharedDependencyAlerts), nil
}

// ResolveTopPriorities returns at most limit rows of the top priorities table
func (r *Resolvers) ResolveTopPriorities(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	m, err := r.Metrics.ComputeMetrics(ctx)
	if err != nil {
		return nil, err
	}
	items := m.TopPriorities
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return priorityRows(items), nil
}

// ResolveUpcoming returns every item reaching its end of support within months
func (r *Resolvers) ResolveUpcoming(ctx context.Context, months int) ([]map[string]interface{}, error) {
	alerts, err := r.Upcoming.Upcoming(ctx, months)
	if err != nil {
		return nil, err
	}

	today := util.Today(r.Location)
	rows := []map[string]interface{}{}
	for _, a := range alerts {
		row := map[string]interface{}{
			"application":    a.Application.Name,
			"application_id": a.Application.Key,
			"project":        "",
			"criticity":      string(a.Application.Criticity),
		}
		if a.Project != nil {
			row["project"] = a.Project.Name
		}
		switch {
		case a.Version != nil:
			row["item_type"] = "version"
			row["item_id"] = a.Version.Key
			row["label"] = a.Version.Number
			row["end_of_support"] = util.FormatDate(a.Version.EndOfSupport)
			row["bucket"] = util.Bucket(a.Version.EndOfSupport, today)
		case a.Dependency != nil:
			row["item_type"] = "dependency"
			row["item_id"] = a.Dependency.Key
			row["label"] = a.Dependency.Name
			row["end_of_support"] = util.FormatDate(a.Dependency.EndOfSupport)
			row["bucket"] = util.Bucket(a.Dependency.EndOfSupport, today)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
