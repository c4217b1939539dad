// Package model - API types for requests and responses
package model

// EmailNotificationRequest is the body of POST /notifications/email
type EmailNotificationRequest struct {
	ApplicationID string   `json:"application_id"`
	VersionID     string   `json:"version_id,omitempty"`
	DependencyID  string   `json:"dependency_id,omitempty"`
	Recipients    []string `json:"recipients"`
	Subject       string   `json:"subject"`
}

// TeamsNotificationRequest is the body of POST /notifications/teams
type TeamsNotificationRequest struct {
	ApplicationID string `json:"application_id"`
	VersionID     string `json:"version_id,omitempty"`
	DependencyID  string `json:"dependency_id,omitempty"`
	Summary       string `json:"summary"`
}

// WriteResponse is returned by inventory POST endpoints
type WriteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}
