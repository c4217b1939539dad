// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/obsolescence-backend/database"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/restapi/modules/actionplans"
	"github.com/ortelius/obsolescence-backend/restapi/modules/admin"
	"github.com/ortelius/obsolescence-backend/restapi/modules/auth"
	"github.com/ortelius/obsolescence-backend/restapi/modules/dashboard"
	"github.com/ortelius/obsolescence-backend/restapi/modules/inventory"
	"github.com/ortelius/obsolescence-backend/restapi/modules/notifications"
	"github.com/ortelius/obsolescence-backend/restapi/modules/timeline"
	"go.uber.org/zap"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Auth       *auth.Authenticator
	Metrics    dashboard.MetricsService
	Dispatcher notifications.Sender
	Store      *database.Store
	Timeline   inventory.Timeline
	AlertJob   admin.AlertJob
	Schema     graphql.Schema
	Logger     *zap.Logger
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	requireAuth := deps.Auth.RequireAuth()
	contributor := auth.RequireRole(model.RoleContributor)
	admins := auth.RequireRole(model.RoleAdmin)

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - read-only dashboard queries
	api.Post("/graphql", requireAuth, GraphQLHandler(deps.Schema))

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Get("/me", requireAuth, auth.Me())

	// Dashboard
	api.Get("/dashboard/metrics", requireAuth, dashboard.GetMetrics(deps.Metrics))

	// Notifications
	notificationGroup := api.Group("/notifications", requireAuth, contributor)
	notificationGroup.Post("/email", notifications.PostEmail(deps.Dispatcher))
	notificationGroup.Post("/teams", notifications.PostTeams(deps.Dispatcher))
	notificationGroup.Get("/", notifications.ListNotifications(deps.Store))

	// Inventory
	api.Get("/projects", requireAuth, inventory.ListProjects(deps.Store))
	api.Post("/projects", requireAuth, contributor, inventory.PostProject(deps.Store))
	api.Get("/applications", requireAuth, inventory.ListApplications(deps.Store))
	api.Post("/applications", requireAuth, contributor, inventory.PostApplication(deps.Store, deps.Timeline))
	api.Get("/versions", requireAuth, inventory.ListVersions(deps.Store))
	api.Post("/versions", requireAuth, contributor, inventory.PostVersion(deps.Store, deps.Timeline))
	api.Get("/dependencies", requireAuth, inventory.ListDependencies(deps.Store))
	api.Post("/dependencies", requireAuth, contributor, inventory.PostDependency(deps.Store, deps.Timeline))

	// Audit trail
	api.Get("/timeline", requireAuth, timeline.ListTimeline(deps.Store))

	// Action plans
	plans := api.Group("/action-plans", requireAuth)
	plans.Get("/", actionplans.ListActionPlans(deps.Store))
	plans.Post("/", contributor, actionplans.PostActionPlan(deps.Store, deps.Timeline))
	plans.Put("/:key", contributor, actionplans.PutActionPlan(deps.Store, deps.Timeline))
	plans.Delete("/:key", contributor, actionplans.DeleteActionPlan(deps.Store, deps.Timeline))

	// Alert job (Admin)
	adminGroup := api.Group("/admin", requireAuth, admins)
	adminGroup.Post("/alerts/run", admin.PostRunAlerts(deps.AlertJob))
	adminGroup.Get("/alerts/status", admin.GetAlertsStatus(deps.AlertJob))

	deps.Logger.Info("API routes initialized successfully")
}
