package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = civil.Date{Year: 2025, Month: time.March, Day: 10}

func day(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func app(key, name, project string, criticity model.Criticity) model.Application {
	return model.Application{Key: key, Name: name, ProjectKey: project, Criticity: criticity}
}

func versionItem(a model.Application, number string, eos *civil.Date, status model.RemediationStatus) model.VersionItem {
	return model.VersionItem{
		Version:     model.Version{ApplicationKey: a.Key, Number: number, EndOfSupport: eos, RemediationStatus: status},
		Application: a,
	}
}

func dependencyItem(a model.Application, name string, eos *civil.Date) model.DependencyItem {
	return model.DependencyItem{
		Dependency:  model.Dependency{ApplicationKey: a.Key, Name: name, EndOfSupport: eos},
		Application: a,
	}
}

func TestComputeEmpty(t *testing.T) {
	m := Compute(Snapshot{}, today)

	assert.Equal(t, 0, m.TotalItems)
	assert.Equal(t, 0, m.ObsoleteCount)
	require.Len(t, m.ExpiringSoon, 4)
	for _, b := range util.Buckets() {
		assert.Equal(t, 0, m.ExpiringSoon[b], b)
	}
	require.Len(t, m.RemediationStats, len(model.RemediationStatuses()))
	for _, s := range m.RemediationStats {
		assert.Equal(t, 0, s.Count)
	}
	assert.NotNil(t, m.TimelineHistogram)
	assert.Empty(t, m.TimelineHistogram)
	assert.NotNil(t, m.ProjectCriticity)
	assert.Empty(t, m.SharedDependencyAlerts)
	assert.NotNil(t, m.SharedDependencyAlerts)
	assert.Empty(t, m.TopPriorities)
	assert.NotNil(t, m.TopPriorities)
}

func TestComputeSharedDependencyScenario(t *testing.T) {
	a1 := app("a1", "A1", "p1", model.CriticityHigh)
	a1.Owner = "a@x.com"
	a2 := app("a2", "A2", "p1", model.CriticityLow)

	eos := day(2025, time.June, 1)
	snapshot := Snapshot{
		Dependencies: []model.DependencyItem{
			dependencyItem(a1, "libX", eos),
			dependencyItem(a2, "libX", day(2025, time.June, 1)),
		},
	}

	m := Compute(snapshot, today)

	require.Len(t, m.SharedDependencyAlerts, 1)
	alert := m.SharedDependencyAlerts[0]
	assert.Equal(t, "libX", alert.DependencyName)
	assert.Equal(t, []string{"A1", "A2"}, alert.SharedBy)
	assert.Equal(t, *eos, *alert.EndOfSupport)
	// March -> June is three calendar months
	assert.Equal(t, util.UrgencyColor(util.Bucket(eos, today)), alert.UrgencyColor)
	assert.Equal(t, util.ColorRed, alert.UrgencyColor)
}

func TestComputeSingleApplicationNoAlert(t *testing.T) {
	a1 := app("a1", "A1", "p1", model.CriticityHigh)
	eos := day(2025, time.June, 1)

	snapshot := Snapshot{
		Dependencies: []model.DependencyItem{
			dependencyItem(a1, "libX", eos),
			dependencyItem(a1, "libX", eos),
		},
	}

	m := Compute(snapshot, today)
	assert.Empty(t, m.SharedDependencyAlerts)
}

func TestComputeSharedDependencyNeedsSameDate(t *testing.T) {
	a1 := app("a1", "A1", "p1", model.CriticityHigh)
	a2 := app("a2", "A2", "p1", model.CriticityHigh)

	snapshot := Snapshot{
		Dependencies: []model.DependencyItem{
			dependencyItem(a1, "libX", day(2025, time.June, 1)),
			dependencyItem(a2, "libX", day(2025, time.June, 2)),
			dependencyItem(a2, "libY", nil),
			dependencyItem(a1, "libY", nil),
		},
	}

	m := Compute(snapshot, today)
	assert.Empty(t, m.SharedDependencyAlerts)
}

func TestComputeObsoleteOverride(t *testing.T) {
	a := app("a1", "A1", "p1", model.CriticityMedium)

	snapshot := Snapshot{
		Versions: []model.VersionItem{
			versionItem(a, "1.0", day(2024, time.December, 1), model.RemediationPlanned),
			// expiring today: bucketed as obsolete but not strictly past
			versionItem(a, "1.1", &today, model.RemediationNotPlanned),
			versionItem(a, "2.0", day(2025, time.May, 2), model.RemediationNotPlanned),
			versionItem(a, "3.0", nil, model.RemediationDone),
		},
		Dependencies: []model.DependencyItem{
			dependencyItem(a, "java", day(2025, time.March, 9)),
			dependencyItem(a, "postgres", day(2025, time.August, 20)),
			dependencyItem(a, "redis", day(2026, time.January, 1)),
		},
	}

	m := Compute(snapshot, today)

	assert.Equal(t, 7, m.TotalItems)
	assert.Equal(t, 2, m.ObsoleteCount)
	assert.Equal(t, 2, m.ExpiringSoon[util.BucketObsolete])
	assert.Equal(t, 1, m.ExpiringSoon[util.BucketUnder3Months])
	assert.Equal(t, 1, m.ExpiringSoon[util.Bucket3To6Months])
	assert.Equal(t, 1, m.ExpiringSoon[util.BucketOver6Months])
}

func TestComputeRemediationAndTimeline(t *testing.T) {
	a := app("a1", "A1", "p1", model.CriticityMedium)

	snapshot := Snapshot{
		Versions: []model.VersionItem{
			versionItem(a, "1.0", day(2025, time.January, 31), model.RemediationPlanned),
			versionItem(a, "1.1", day(2025, time.March, 1), model.RemediationPlanned),
			versionItem(a, "2.0", day(2025, time.April, 1), model.RemediationInProgress),
			versionItem(a, "3.0", nil, model.RemediationNotPlanned),
		},
	}

	m := Compute(snapshot, today)

	want := map[model.RemediationStatus]int{
		model.RemediationNotPlanned: 1,
		model.RemediationPlanned:    2,
		model.RemediationInProgress: 1,
		model.RemediationDone:       0,
	}
	for _, s := range m.RemediationStats {
		assert.Equal(t, want[s.Status], s.Count, string(s.Status))
	}

	assert.Equal(t, map[string]int{"2025-Q1": 2, "2025-Q2": 1}, m.TimelineHistogram)
}

func TestComputeProjectCriticity(t *testing.T) {
	p1 := &model.Project{Key: "p1", Name: "Billing"}
	p2 := &model.Project{Key: "p2", Name: "Analytics"}

	snapshot := Snapshot{
		Applications: []model.ApplicationItem{
			{Application: app("a1", "A1", "p1", model.CriticityCritical), Project: p1},
			{Application: app("a2", "A2", "p1", model.CriticityLow), Project: p1},
			{Application: app("a3", "A3", "p1", model.CriticityCritical), Project: p1},
			{Application: app("a4", "A4", "p2", model.CriticityHigh), Project: p2},
		},
	}

	m := Compute(snapshot, today)

	assert.Equal(t, []model.ProjectCriticityStat{
		{Project: "Analytics", Criticity: model.CriticityHigh, Count: 1},
		{Project: "Billing", Criticity: model.CriticityLow, Count: 1},
		{Project: "Billing", Criticity: model.CriticityCritical, Count: 2},
	}, m.ProjectCriticity)
}

func TestComputeTopPriorities(t *testing.T) {
	a := app("a1", "A1", "p1", model.CriticityCritical)

	var versions []model.VersionItem
	var dependencies []model.DependencyItem
	for i := 0; i < 12; i++ {
		versions = append(versions, versionItem(a, fmt.Sprintf("v%d", i), day(2025, time.April, 1+2*i), model.RemediationNotPlanned))
		dependencies = append(dependencies, dependencyItem(a, fmt.Sprintf("dep%d", i), day(2025, time.April, 2+2*i)))
	}
	versions = append(versions, versionItem(a, "undated", nil, model.RemediationNotPlanned))

	m := Compute(Snapshot{Versions: versions, Dependencies: dependencies}, today)

	require.Len(t, m.TopPriorities, 10)
	first := m.TopPriorities[0]
	assert.Equal(t, "version", first.Type)
	assert.Equal(t, "A1", first.Application)
	assert.Equal(t, "v0", first.Label)
	assert.Equal(t, "2025-04-01", first.Deadline)
	assert.Equal(t, "critical", first.Criticity)

	assert.Equal(t, "dependency", m.TopPriorities[1].Type)
	assert.Equal(t, "dep0", m.TopPriorities[1].Label)
	assert.Equal(t, "2025-04-10", m.TopPriorities[9].Deadline)

	for i := 1; i < len(m.TopPriorities); i++ {
		assert.LessOrEqual(t, m.TopPriorities[i-1].Deadline, m.TopPriorities[i].Deadline)
	}
}

type fakeStore struct {
	versions     []model.VersionItem
	dependencies []model.DependencyItem
	applications []model.ApplicationItem
	err          error
}

func (f *fakeStore) ListVersions(context.Context) ([]model.VersionItem, error) {
	return f.versions, f.err
}

func (f *fakeStore) ListDependencies(context.Context) ([]model.DependencyItem, error) {
	return f.dependencies, nil
}

func (f *fakeStore) ListApplications(context.Context) ([]model.ApplicationItem, error) {
	return f.applications, nil
}

func TestServiceComputeMetrics(t *testing.T) {
	a := app("a1", "A1", "p1", model.CriticityLow)
	store := &fakeStore{
		versions:     []model.VersionItem{versionItem(a, "1.0", nil, model.RemediationDone)},
		dependencies: []model.DependencyItem{dependencyItem(a, "java", nil)},
		applications: []model.ApplicationItem{{Application: a}},
	}

	m, err := NewService(store, time.UTC).ComputeMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalItems)
	assert.Equal(t, []model.ProjectCriticityStat{{Project: "", Criticity: model.CriticityLow, Count: 1}}, m.ProjectCriticity)
}

func TestServiceComputeMetricsStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("boom")}

	m, err := NewService(store, time.UTC).ComputeMetrics(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, m.TotalItems)
	assert.Len(t, m.ExpiringSoon, 4)
}
