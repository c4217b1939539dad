// Package model defines the data structures used by the obsolescence backend,
// including projects, applications, versions, dependencies and notifications.
package model

// Criticity is the business-impact severity level of an application.
type Criticity string

const (
	// CriticityLow is the lowest business impact.
	CriticityLow Criticity = "low"
	// CriticityMedium is the default business impact.
	CriticityMedium Criticity = "medium"
	// CriticityHigh marks applications whose outage hurts several teams.
	CriticityHigh Criticity = "high"
	// CriticityCritical marks business-critical applications.
	CriticityCritical Criticity = "critical"
)

var criticityRank = map[Criticity]int{
	CriticityLow:      1,
	CriticityMedium:   2,
	CriticityHigh:     3,
	CriticityCritical: 4,
}

// Rank returns the ordinal of the criticity (low=1 ... critical=4), 0 when unknown.
func (c Criticity) Rank() int {
	return criticityRank[c]
}

// IsValid reports whether c is one of the known criticity levels.
func (c Criticity) IsValid() bool {
	_, ok := criticityRank[c]
	return ok
}

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	// ApplicationActive is an application in service.
	ApplicationActive ApplicationStatus = "active"
	// ApplicationDeprecated is still running but scheduled for replacement.
	ApplicationDeprecated ApplicationStatus = "deprecated"
	// ApplicationRetired is no longer running.
	ApplicationRetired ApplicationStatus = "retired"
)

// RemediationStatus tracks whether an expiring version has a planned fix.
type RemediationStatus string

const (
	// RemediationNotPlanned is the default state of a version.
	RemediationNotPlanned RemediationStatus = "not_planned"
	// RemediationPlanned means a fix is scheduled.
	RemediationPlanned RemediationStatus = "planned"
	// RemediationInProgress means the fix is being rolled out.
	RemediationInProgress RemediationStatus = "in_progress"
	// RemediationDone means the version has been remediated.
	RemediationDone RemediationStatus = "done"
)

// RemediationStatuses returns the closed set of remediation states in workflow order.
func RemediationStatuses() []RemediationStatus {
	return []RemediationStatus{
		RemediationNotPlanned,
		RemediationPlanned,
		RemediationInProgress,
		RemediationDone,
	}
}

// DependencyCategory classifies a dependency.
type DependencyCategory string

const (
	// CategoryLanguage is a programming language (java, python...).
	CategoryLanguage DependencyCategory = "language"
	// CategoryRuntime is a runtime or VM.
	CategoryRuntime DependencyCategory = "runtime"
	// CategoryOS is an operating system.
	CategoryOS DependencyCategory = "os"
	// CategoryMiddleware is an application server, broker or database.
	CategoryMiddleware DependencyCategory = "middleware"
	// CategoryLibrary is a software library.
	CategoryLibrary DependencyCategory = "library"
	// CategoryOther is anything else.
	CategoryOther DependencyCategory = "other"
)

// Channel is the outbound delivery channel of a notification.
type Channel string

const (
	// ChannelEmail delivers through SMTP.
	ChannelEmail Channel = "email"
	// ChannelTeams delivers through the Teams incoming webhook.
	ChannelTeams Channel = "teams"
)

// IsValid reports whether s is one of the known remediation states.
func (s RemediationStatus) IsValid() bool {
	for _, known := range RemediationStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the known application states.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationActive, ApplicationDeprecated, ApplicationRetired:
		return true
	}
	return false
}

// IsValid reports whether c is one of the known dependency categories.
func (c DependencyCategory) IsValid() bool {
	switch c {
	case CategoryLanguage, CategoryRuntime, CategoryOS, CategoryMiddleware, CategoryLibrary, CategoryOther:
		return true
	}
	return false
}
