// Package dashboard defines the GraphQL types for the obsolescence dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// BucketCountType is one time-to-expiry bucket of the histogram
var BucketCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BucketCount",
	Fields: graphql.Fields{
		"label": &graphql.Field{Type: graphql.String},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

// PeriodCountType is one quarter of the end-of-support timeline
var PeriodCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PeriodCount",
	Fields: graphql.Fields{
		"period": &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
	},
})

// RemediationStatType counts versions per remediation status
var RemediationStatType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RemediationStat",
	Fields: graphql.Fields{
		"status": &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
	},
})

// ProjectCriticityStatType counts applications per project and criticity
var ProjectCriticityStatType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProjectCriticityStat",
	Fields: graphql.Fields{
		"project":   &graphql.Field{Type: graphql.String},
		"criticity": &graphql.Field{Type: graphql.String},
		"count":     &graphql.Field{Type: graphql.Int},
	},
})

// DependencyAlertType is a shared-dependency risk cluster
var DependencyAlertType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DependencyAlert",
	Fields: graphql.Fields{
		"dependency_name": &graphql.Field{Type: graphql.String},
		"shared_by":       &graphql.Field{Type: graphql.NewList(graphql.String)},
		"end_of_support":  &graphql.Field{Type: graphql.String},
		"urgency_color":   &graphql.Field{Type: graphql.String},
	},
})

// PriorityItemType is one row of the top priorities table
var PriorityItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PriorityItem",
	Fields: graphql.Fields{
		"type":        &graphql.Field{Type: graphql.String},
		"application": &graphql.Field{Type: graphql.String},
		"label":       &graphql.Field{Type: graphql.String},
		"deadline":    &graphql.Field{Type: graphql.String},
		"criticity":   &graphql.Field{Type: graphql.String},
	},
})

// DashboardMetricsType is the full dashboard summary
var DashboardMetricsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardMetrics",
	Fields: graphql.Fields{
		"total_items":              &graphql.Field{Type: graphql.Int},
		"obsolete_count":           &graphql.Field{Type: graphql.Int},
		"expiring_soon":            &graphql.Field{Type: graphql.NewList(BucketCountType)},
		"remediation_stats":        &graphql.Field{Type: graphql.NewList(RemediationStatType)},
		"timeline_histogram":       &graphql.Field{Type: graphql.NewList(PeriodCountType)},
		"project_criticity":        &graphql.Field{Type: graphql.NewList(ProjectCriticityStatType)},
		"shared_dependency_alerts": &graphql.Field{Type: graphql.NewList(DependencyAlertType)},
		"top_priorities":           &graphql.Field{Type: graphql.NewList(PriorityItemType)},
	},
})

// UpcomingObsolescenceType is an application item reaching its end of support
var UpcomingObsolescenceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UpcomingObsolescence",
	Fields: graphql.Fields{
		"application":    &graphql.Field{Type: graphql.String},
		"application_id": &graphql.Field{Type: graphql.String},
		"project":        &graphql.Field{Type: graphql.String},
		"criticity":      &graphql.Field{Type: graphql.String},
		"item_type":      &graphql.Field{Type: graphql.String},
		"item_id":        &graphql.Field{Type: graphql.String},
		"label":          &graphql.Field{Type: graphql.String},
		"end_of_support": &graphql.Field{Type: graphql.String},
		"bucket":         &graphql.Field{Type: graphql.String},
	},
})
