package dashboard

import (
	"fmt"

	"github.com/graphql-go/graphql"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(r *Resolvers) graphql.Fields {
	return graphql.Fields{
		"dashboardMetrics": &graphql.Field{
			Type: DashboardMetricsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.ResolveMetrics(p.Context)
			},
		},
		"dashboardExpiry": &graphql.Field{
			Type: graphql.NewList(BucketCountType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.ResolveExpiry(p.Context)
			},
		},
		"dashboardSharedDependencies": &graphql.Field{
			Type: graphql.NewList(DependencyAlertType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.ResolveSharedDependencies(p.Context)
			},
		},
		"dashboardTopPriorities": &graphql.Field{
			Type: graphql.NewList(PriorityItemType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				return r.ResolveTopPriorities(p.Context, limit)
			},
		},
		"upcomingObsolescences": &graphql.Field{
			Type: graphql.NewList(UpcomingObsolescenceType),
			Args: graphql.FieldConfigArgument{
				"months": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 6},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				months := p.Args["months"].(int)
				if months < 0 {
					return nil, fmt.Errorf("months must not be negative")
				}
				return r.ResolveUpcoming(p.Context, months)
			},
		},
	}
}
