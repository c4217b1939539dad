// Package metrics computes the obsolescence dashboard from a snapshot of the
// tracked inventory.
package metrics

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/util"
)

const topPriorityLimit = 10

// Snapshot is the resolved inventory the aggregator works on
type Snapshot struct {
	Versions     []model.VersionItem
	Dependencies []model.DependencyItem
	Applications []model.ApplicationItem
}

// Store is the read side the metrics service needs
type Store interface {
	ListVersions(ctx context.Context) ([]model.VersionItem, error)
	ListDependencies(ctx context.Context) ([]model.DependencyItem, error)
	ListApplications(ctx context.Context) ([]model.ApplicationItem, error)
}

// Service loads snapshots from the store and aggregates them
type Service struct {
	store    Store
	location *time.Location
}

// NewService creates a metrics service. Today is evaluated in loc.
func NewService(store Store, loc *time.Location) *Service {
	return &Service{store: store, location: loc}
}

// ComputeMetrics loads the current inventory and returns the dashboard summary
func (s *Service) ComputeMetrics(ctx context.Context) (model.DashboardMetrics, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return Empty(), err
	}
	return Compute(snapshot, util.Today(s.location)), nil
}

// Snapshot reads versions, dependencies and applications from the store
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	versions, err := s.store.ListVersions(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	dependencies, err := s.store.ListDependencies(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	applications, err := s.store.ListApplications(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Versions: versions, Dependencies: dependencies, Applications: applications}, nil
}

// Empty returns zero-valued metrics with every bucket and status present
func Empty() model.DashboardMetrics {
	expiring := make(map[string]int)
	for _, b := range util.Buckets() {
		expiring[b] = 0
	}

	remediation := []model.RemediationStat{}
	for _, status := range model.RemediationStatuses() {
		remediation = append(remediation, model.RemediationStat{Status: status})
	}

	return model.DashboardMetrics{
		ExpiringSoon:           expiring,
		RemediationStats:       remediation,
		TimelineHistogram:      map[string]int{},
		ProjectCriticity:       []model.ProjectCriticityStat{},
		SharedDependencyAlerts: []model.DependencyAlert{},
		TopPriorities:          []model.PriorityItem{},
	}
}

// Compute aggregates a snapshot relative to today. It has no side effects.
func Compute(s Snapshot, today civil.Date) model.DashboardMetrics {
	m := Empty()

	m.TotalItems = len(s.Versions) + len(s.Dependencies)

	for _, v := range s.Versions {
		if util.IsPast(v.Version.EndOfSupport, today) {
			m.ObsoleteCount++
		}
	}
	for _, d := range s.Dependencies {
		if util.IsPast(d.Dependency.EndOfSupport, today) {
			m.ObsoleteCount++
		}
	}

	for _, v := range s.Versions {
		if v.Version.EndOfSupport != nil {
			m.ExpiringSoon[util.Bucket(v.Version.EndOfSupport, today)]++
		}
	}
	for _, d := range s.Dependencies {
		if d.Dependency.EndOfSupport != nil {
			m.ExpiringSoon[util.Bucket(d.Dependency.EndOfSupport, today)]++
		}
	}
	// The obsolete bucket reports the past-date count, not the bucket tally
	m.ExpiringSoon[util.BucketObsolete] = m.ObsoleteCount

	m.RemediationStats = remediationStats(s.Versions)
	m.TimelineHistogram = timeline(s.Versions)
	m.ProjectCriticity = projectCriticity(s.Applications)
	m.SharedDependencyAlerts = sharedDependencyAlerts(s.Dependencies, today)
	m.TopPriorities = topPriorities(s.Versions, s.Dependencies)

	return m
}

func remediationStats(versions []model.VersionItem) []model.RemediationStat {
	counts := make(map[model.RemediationStatus]int)
	for _, v := range versions {
		counts[v.Version.RemediationStatus]++
	}

	stats := []model.RemediationStat{}
	for _, status := range model.RemediationStatuses() {
		stats = append(stats, model.RemediationStat{Status: status, Count: counts[status]})
	}
	return stats
}

func timeline(versions []model.VersionItem) map[string]int {
	histogram := map[string]int{}
	for _, v := range versions {
		if v.Version.EndOfSupport == nil {
			continue
		}
		histogram[util.QuarterLabel(*v.Version.EndOfSupport)]++
	}
	return histogram
}

type projectCriticityKey struct {
	project   string
	criticity model.Criticity
}

func projectCriticity(applications []model.ApplicationItem) []model.ProjectCriticityStat {
	counts := make(map[projectCriticityKey]int)
	for _, a := range applications {
		counts[projectCriticityKey{project: a.ProjectName(), criticity: a.Application.Criticity}]++
	}

	stats := []model.ProjectCriticityStat{}
	for k, count := range counts {
		stats = append(stats, model.ProjectCriticityStat{Project: k.project, Criticity: k.criticity, Count: count})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Project != stats[j].Project {
			return stats[i].Project < stats[j].Project
		}
		if stats[i].Criticity.Rank() != stats[j].Criticity.Rank() {
			return stats[i].Criticity.Rank() < stats[j].Criticity.Rank()
		}
		return stats[i].Criticity < stats[j].Criticity
	})
	return stats
}

type dependencyGroupKey struct {
	name string
	eos  civil.Date
}

type dependencyGroup struct {
	key  dependencyGroupKey
	apps []string
	seen map[string]bool
}

func sharedDependencyAlerts(dependencies []model.DependencyItem, today civil.Date) []model.DependencyAlert {
	groups := make(map[dependencyGroupKey]*dependencyGroup)
	var order []*dependencyGroup

	for _, d := range dependencies {
		if d.Dependency.EndOfSupport == nil {
			continue
		}
		key := dependencyGroupKey{name: d.Dependency.Name, eos: *d.Dependency.EndOfSupport}
		group, ok := groups[key]
		if !ok {
			group = &dependencyGroup{key: key, seen: make(map[string]bool)}
			groups[key] = group
			order = append(order, group)
		}
		appName := d.Application.Name
		if !group.seen[appName] {
			group.seen[appName] = true
			group.apps = append(group.apps, appName)
		}
	}

	alerts := []model.DependencyAlert{}
	for _, group := range order {
		if len(group.apps) < 2 {
			continue
		}
		eos := group.key.eos
		alerts = append(alerts, model.DependencyAlert{
			DependencyName: group.key.name,
			SharedBy:       group.apps,
			EndOfSupport:   &eos,
			UrgencyColor:   util.UrgencyColor(util.Bucket(&eos, today)),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		ei, ej := *alerts[i].EndOfSupport, *alerts[j].EndOfSupport
		if ei != ej {
			return ei.Before(ej)
		}
		return alerts[i].DependencyName < alerts[j].DependencyName
	})
	return alerts
}

func topPriorities(versions []model.VersionItem, dependencies []model.DependencyItem) []model.PriorityItem {
	var dated []model.VersionItem
	for _, v := range versions {
		if v.Version.EndOfSupport != nil {
			dated = append(dated, v)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Version.EndOfSupport.Before(*dated[j].Version.EndOfSupport)
	})
	if len(dated) > topPriorityLimit {
		dated = dated[:topPriorityLimit]
	}

	var datedDeps []model.DependencyItem
	for _, d := range dependencies {
		if d.Dependency.EndOfSupport != nil {
			datedDeps = append(datedDeps, d)
		}
	}
	sort.SliceStable(datedDeps, func(i, j int) bool {
		return datedDeps[i].Dependency.EndOfSupport.Before(*datedDeps[j].Dependency.EndOfSupport)
	})
	if len(datedDeps) > topPriorityLimit {
		datedDeps = datedDeps[:topPriorityLimit]
	}

	items := []model.PriorityItem{}
	for _, v := range dated {
		items = append(items, model.PriorityItem{
			Type:        "version",
			Application: v.Application.Name,
			Label:       v.Version.Number,
			Deadline:    util.FormatDate(v.Version.EndOfSupport),
			Criticity:   string(v.Application.Criticity),
		})
	}
	for _, d := range datedDeps {
		items = append(items, model.PriorityItem{
			Type:        "dependency",
			Application: d.Application.Name,
			Label:       d.Dependency.Name,
			Deadline:    util.FormatDate(d.Dependency.EndOfSupport),
			Criticity:   string(d.Application.Criticity),
		})
	}

	// ISO dates sort lexically; an empty deadline sorts first
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Deadline < items[j].Deadline
	})
	if len(items) > topPriorityLimit {
		items = items[:topPriorityLimit]
	}
	return items
}
