// Package auth provides authentication and authorization types for the REST API.
package auth

// Locals keys set by the middleware
const (
	localsCaller        = "caller"
	localsAuthenticated = "is_authenticated"
	authCookie          = "auth_token"
	bearerPrefix        = "Bearer "
)

type contextKey string

// CallerKey is the context key under which the GraphQL handler stores the caller
const CallerKey contextKey = "caller"
