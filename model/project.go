// Package model - projects and applications
package model

import "time"

// Project groups applications and carries an optional notification contact.
type Project struct {
	Key       string    `json:"_key,omitempty"`
	Name      string    `json:"name"`
	Team      string    `json:"team,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	ObjType   string    `json:"objtype,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProject creates a new Project with default values
func NewProject(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		Name:      name,
		ObjType:   "Project",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Application is a tracked piece of software owned by a project.
type Application struct {
	Key         string            `json:"_key,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	ProjectKey  string            `json:"project_key"`
	Owner       string            `json:"owner,omitempty"`
	Criticity   Criticity         `json:"criticity"`
	Status      ApplicationStatus `json:"status"`
	ObjType     string            `json:"objtype,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewApplication creates a new Application with default values
func NewApplication(name, projectKey string) *Application {
	now := time.Now().UTC()
	return &Application{
		Name:       name,
		ProjectKey: projectKey,
		Criticity:  CriticityMedium,
		Status:     ApplicationActive,
		ObjType:    "Application",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ApplicationItem is an application with its owning project resolved.
type ApplicationItem struct {
	Application Application `json:"application"`
	Project     *Project    `json:"project,omitempty"`
}

// ProjectName returns the owning project's name or "" when the project is unknown.
func (a ApplicationItem) ProjectName() string {
	if a.Project == nil {
		return ""
	}
	return a.Project.Name
}
