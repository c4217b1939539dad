// Package graphql assembles the read-only GraphQL schema of the service.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/obsolescence-backend/graphql/modules/dashboard"
)

// CreateSchema builds the root query from the dashboard module
func CreateSchema(resolvers *dashboard.Resolvers) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: dashboard.GetQueryFields(resolvers),
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
