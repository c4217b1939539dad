package database

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/ortelius/obsolescence-backend/model"
)

const lastAlertRunKey = "last_alert_run"

// Store reads the tracked inventory with relationships resolved and appends
// notification records.
type Store struct {
	db DBConnection
}

// NewStore wraps an initialized connection
func NewStore(db DBConnection) *Store {
	return &Store{db: db}
}

// queryAll runs an AQL query and decodes every row into T
func queryAll[T any](ctx context.Context, db DBConnection, query string, bindVars map[string]interface{}) ([]T, error) {
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	results := []T{}
	for cursor.HasMore() {
		var row T
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}

// queryOne returns the first row or nil when the query yields nothing
func queryOne[T any](ctx context.Context, db DBConnection, query string, bindVars map[string]interface{}) (*T, error) {
	rows, err := queryAll[T](ctx, db, query, bindVars)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListVersions returns every version with its application and project
func (s *Store) ListVersions(ctx context.Context) ([]model.VersionItem, error) {
	query := `
		FOR v IN version
			LET app = DOCUMENT("application", v.application_key)
			FILTER app != null
			LET proj = DOCUMENT("project", app.project_key)
			RETURN { version: v, application: app, project: proj }
	`
	items, err := queryAll[model.VersionItem](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return items, nil
}

// ListDependencies returns every dependency with its application and project
func (s *Store) ListDependencies(ctx context.Context) ([]model.DependencyItem, error) {
	query := `
		FOR d IN dependency
			LET app = DOCUMENT("application", d.application_key)
			FILTER app != null
			LET proj = DOCUMENT("project", app.project_key)
			RETURN { dependency: d, application: app, project: proj }
	`
	items, err := queryAll[model.DependencyItem](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	return items, nil
}

// ListApplications returns every application with its project
func (s *Store) ListApplications(ctx context.Context) ([]model.ApplicationItem, error) {
	query := `
		FOR a IN application
			SORT a.name ASC
			RETURN { application: a, project: DOCUMENT("project", a.project_key) }
	`
	items, err := queryAll[model.ApplicationItem](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return items, nil
}

// exec runs a write query and discards its cursor
func exec(ctx context.Context, db DBConnection, query string, bindVars map[string]interface{}) error {
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	return cursor.Close()
}

// ListProjects returns every project ordered by name
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	query := `FOR p IN project SORT p.name ASC RETURN p`
	items, err := queryAll[model.Project](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return items, nil
}

// GetProject returns the project, nil when absent
func (s *Store) GetProject(ctx context.Context, key string) (*model.Project, error) {
	query := `FOR p IN project FILTER p._key == @key LIMIT 1 RETURN p`
	item, err := queryOne[model.Project](ctx, s.db, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", key, err)
	}
	return item, nil
}

// GetApplication returns the application with its project, nil when absent
func (s *Store) GetApplication(ctx context.Context, key string) (*model.ApplicationItem, error) {
	query := `
		FOR a IN application
			FILTER a._key == @key
			LIMIT 1
			RETURN { application: a, project: DOCUMENT("project", a.project_key) }
	`
	item, err := queryOne[model.ApplicationItem](ctx, s.db, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", key, err)
	}
	return item, nil
}

// GetVersion returns the version, nil when absent
func (s *Store) GetVersion(ctx context.Context, key string) (*model.Version, error) {
	query := `FOR v IN version FILTER v._key == @key LIMIT 1 RETURN v`
	item, err := queryOne[model.Version](ctx, s.db, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to get version %s: %w", key, err)
	}
	return item, nil
}

// GetDependency returns the dependency, nil when absent
func (s *Store) GetDependency(ctx context.Context, key string) (*model.Dependency, error) {
	query := `FOR d IN dependency FILTER d._key == @key LIMIT 1 RETURN d`
	item, err := queryOne[model.Dependency](ctx, s.db, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency %s: %w", key, err)
	}
	return item, nil
}

// AppendNotification persists a notification record and returns it with its key
func (s *Store) AppendNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	n.ObjType = "Notification"
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	meta, err := s.db.Collections[NotificationCollection].CreateDocument(ctx, n)
	if err != nil {
		return n, fmt.Errorf("failed to save notification: %w", err)
	}
	n.Key = meta.Key
	return n, nil
}

// ListNotifications returns the notification history, newest first
func (s *Store) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	query := `FOR n IN notification SORT n.sent_at DESC RETURN n`
	items, err := queryAll[model.Notification](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// CreateProject inserts a project
func (s *Store) CreateProject(ctx context.Context, p *model.Project) error {
	meta, err := s.db.Collections[ProjectCollection].CreateDocument(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	p.Key = meta.Key
	return nil
}

// CreateApplication inserts an application
func (s *Store) CreateApplication(ctx context.Context, a *model.Application) error {
	meta, err := s.db.Collections[ApplicationCollection].CreateDocument(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}
	a.Key = meta.Key
	return nil
}

// CreateVersion inserts a version
func (s *Store) CreateVersion(ctx context.Context, v *model.Version) error {
	meta, err := s.db.Collections[VersionCollection].CreateDocument(ctx, v)
	if err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}
	v.Key = meta.Key
	return nil
}

// CreateDependency inserts a dependency
func (s *Store) CreateDependency(ctx context.Context, d *model.Dependency) error {
	meta, err := s.db.Collections[DependencyCollection].CreateDocument(ctx, d)
	if err != nil {
		return fmt.Errorf("failed to save dependency: %w", err)
	}
	d.Key = meta.Key
	return nil
}

// SaveAlertRun stores the summary of the latest alert job pass in metadata
func (s *Store) SaveAlertRun(ctx context.Context, summary model.AlertRunSummary) error {
	query := `
		UPSERT { _key: @key }
		INSERT MERGE({ _key: @key }, @doc)
		UPDATE @doc
		IN metadata
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key": lastAlertRunKey,
			"doc": summary,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to save alert run: %w", err)
	}
	return cursor.Close()
}

// LastAlertRun returns the summary of the latest alert job pass, nil if none ran yet
func (s *Store) LastAlertRun(ctx context.Context) (*model.AlertRunSummary, error) {
	query := `FOR m IN metadata FILTER m._key == @key LIMIT 1 RETURN m`
	summary, err := queryOne[model.AlertRunSummary](ctx, s.db, query, map[string]interface{}{"key": lastAlertRunKey})
	if err != nil {
		return nil, fmt.Errorf("failed to load alert run: %w", err)
	}
	return summary, nil
}

// SetRemediationStatus moves a version to a remediation state
func (s *Store) SetRemediationStatus(ctx context.Context, versionKey string, status model.RemediationStatus) error {
	query := `UPDATE { _key: @key } WITH { remediation_status: @status, updated_at: @now } IN version`
	err := exec(ctx, s.db, query, map[string]interface{}{
		"key":    versionKey,
		"status": status,
		"now":    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to update version %s: %w", versionKey, err)
	}
	return nil
}

// AppendTimelineEvent persists a timeline event and returns it with its key
func (s *Store) AppendTimelineEvent(ctx context.Context, e model.TimelineEvent) (model.TimelineEvent, error) {
	e.ObjType = "TimelineEvent"
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	meta, err := s.db.Collections[TimelineCollection].CreateDocument(ctx, e)
	if err != nil {
		return e, fmt.Errorf("failed to save timeline event: %w", err)
	}
	e.Key = meta.Key
	return e, nil
}

// ListTimelineEvents returns the events of an application, newest first
func (s *Store) ListTimelineEvents(ctx context.Context, applicationKey string) ([]model.TimelineEvent, error) {
	query := `
		FOR e IN timeline
			FILTER e.application_key == @app
			SORT e.created_at DESC
			RETURN e
	`
	items, err := queryAll[model.TimelineEvent](ctx, s.db, query, map[string]interface{}{"app": applicationKey})
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline of %s: %w", applicationKey, err)
	}
	return items, nil
}

// ListActionPlans returns the action plans ordered by due date, all of them
// when applicationKey is empty
func (s *Store) ListActionPlans(ctx context.Context, applicationKey string) ([]model.ActionPlan, error) {
	query := `
		FOR p IN action_plan
			FILTER @app == "" OR p.application_key == @app
			SORT p.due_date ASC
			RETURN p
	`
	items, err := queryAll[model.ActionPlan](ctx, s.db, query, map[string]interface{}{"app": applicationKey})
	if err != nil {
		return nil, fmt.Errorf("failed to list action plans: %w", err)
	}
	return items, nil
}

// GetActionPlan returns the action plan, nil when absent
func (s *Store) GetActionPlan(ctx context.Context, key string) (*model.ActionPlan, error) {
	query := `FOR p IN action_plan FILTER p._key == @key LIMIT 1 RETURN p`
	item, err := queryOne[model.ActionPlan](ctx, s.db, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to get action plan %s: %w", key, err)
	}
	return item, nil
}

// CreateActionPlan inserts an action plan
func (s *Store) CreateActionPlan(ctx context.Context, p *model.ActionPlan) error {
	meta, err := s.db.Collections[ActionPlanCollection].CreateDocument(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to save action plan: %w", err)
	}
	p.Key = meta.Key
	return nil
}

// UpdateActionPlan replaces a stored action plan with p
func (s *Store) UpdateActionPlan(ctx context.Context, p *model.ActionPlan) error {
	query := `REPLACE { _key: @key } WITH @doc IN action_plan`
	if err := exec(ctx, s.db, query, map[string]interface{}{"key": p.Key, "doc": p}); err != nil {
		return fmt.Errorf("failed to update action plan %s: %w", p.Key, err)
	}
	return nil
}

// DeleteActionPlan removes an action plan
func (s *Store) DeleteActionPlan(ctx context.Context, key string) error {
	query := `REMOVE { _key: @key } IN action_plan`
	if err := exec(ctx, s.db, query, map[string]interface{}{"key": key}); err != nil {
		return fmt.Errorf("failed to delete action plan %s: %w", key, err)
	}
	return nil
}
