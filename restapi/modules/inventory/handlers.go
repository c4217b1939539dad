// Package inventory implements the REST API handlers that register projects,
// applications, versions and dependencies.
package inventory

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/restapi/modules/auth"
)

// Store is the inventory persistence used by the handlers
type Store interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListApplications(ctx context.Context) ([]model.ApplicationItem, error)
	ListVersions(ctx context.Context) ([]model.VersionItem, error)
	ListDependencies(ctx context.Context) ([]model.DependencyItem, error)
	GetProject(ctx context.Context, key string) (*model.Project, error)
	GetApplication(ctx context.Context, key string) (*model.ApplicationItem, error)
	CreateProject(ctx context.Context, p *model.Project) error
	CreateApplication(ctx context.Context, a *model.Application) error
	CreateVersion(ctx context.Context, v *model.Version) error
	CreateDependency(ctx context.Context, d *model.Dependency) error
}

// Timeline records the audit trail of inventory changes
type Timeline interface {
	Record(ctx context.Context, e model.TimelineEvent)
}

// performedBy returns the authenticated username, "" for anonymous calls
func performedBy(c *fiber.Ctx) string {
	if caller, ok := auth.CallerFrom(c); ok {
		return caller.Username
	}
	return ""
}

// recordCreate appends a create event for an inventory item
func recordCreate(c *fiber.Ctx, events Timeline, applicationKey, entityType, entityID, description string) {
	events.Record(c.UserContext(), *model.NewTimelineEvent(applicationKey, entityType, entityID, model.EventCreate, description, performedBy(c)))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(model.WriteResponse{
		Success: false,
		Message: message,
	})
}

func serverError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(model.WriteResponse{
		Success: false,
		Message: err.Error(),
	})
}

func created(c *fiber.Ctx, message, key string) error {
	return c.Status(fiber.StatusCreated).JSON(model.WriteResponse{
		Success: true,
		Message: message,
		Key:     key,
	})
}

// requireProject answers 404 when the owning project does not exist
func requireProject(c *fiber.Ctx, store Store, key string) (bool, error) {
	project, err := store.GetProject(c.UserContext(), key)
	if err != nil {
		return false, serverError(c, err)
	}
	if project == nil {
		return false, c.Status(fiber.StatusNotFound).JSON(model.WriteResponse{
			Success: false,
			Message: "Project not found: " + key,
		})
	}
	return true, nil
}

// requireApplication answers 404 when the owning application does not exist
func requireApplication(c *fiber.Ctx, store Store, key string) (bool, error) {
	app, err := store.GetApplication(c.UserContext(), key)
	if err != nil {
		return false, serverError(c, err)
	}
	if app == nil {
		return false, c.Status(fiber.StatusNotFound).JSON(model.WriteResponse{
			Success: false,
			Message: "Application not found: " + key,
		})
	}
	return true, nil
}

// ListProjects returns every project
func ListProjects(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListProjects(c.UserContext())
		if err != nil {
			return serverError(c, err)
		}
		return c.JSON(items)
	}
}

// ListApplications returns every application with its project
func ListApplications(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListApplications(c.UserContext())
		if err != nil {
			return serverError(c, err)
		}
		return c.JSON(items)
	}
}

// ListVersions returns every version with its application and project
func ListVersions(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListVersions(c.UserContext())
		if err != nil {
			return serverError(c, err)
		}
		return c.JSON(items)
	}
}

// ListDependencies returns every dependency with its application and project
func ListDependencies(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListDependencies(c.UserContext())
		if err != nil {
			return serverError(c, err)
		}
		return c.JSON(items)
	}
}

// PostProject registers a project
func PostProject(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Project
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
		if req.Name == "" {
			return badRequest(c, "Project name is required")
		}

		p := model.NewProject(req.Name)
		p.Team = req.Team
		p.Contact = req.Contact

		if err := store.CreateProject(c.UserContext(), p); err != nil {
			return serverError(c, err)
		}
		return created(c, "Project created", p.Key)
	}
}

// PostApplication registers an application under a project
func PostApplication(store Store, events Timeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Application
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
		if req.Name == "" || req.ProjectKey == "" {
			return badRequest(c, "Application name and project_key are required")
		}

		a := model.NewApplication(req.Name, req.ProjectKey)
		a.Description = req.Description
		a.Owner = req.Owner
		if req.Criticity != "" {
			if !req.Criticity.IsValid() {
				return badRequest(c, "Invalid criticity: "+string(req.Criticity))
			}
			a.Criticity = req.Criticity
		}
		if req.Status != "" {
			if !req.Status.IsValid() {
				return badRequest(c, "Invalid status: "+string(req.Status))
			}
			a.Status = req.Status
		}

		if ok, err := requireProject(c, store, a.ProjectKey); !ok {
			return err
		}

		if err := store.CreateApplication(c.UserContext(), a); err != nil {
			return serverError(c, err)
		}
		recordCreate(c, events, a.Key, model.EntityApplication, a.Key, "Application "+a.Name+" created")
		return created(c, "Application created", a.Key)
	}
}

// PostVersion registers a version of an application
func PostVersion(store Store, events Timeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Version
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
		if req.ApplicationKey == "" || req.Number == "" {
			return badRequest(c, "application_key and number are required")
		}
		if req.RemediationStatus != "" && !req.RemediationStatus.IsValid() {
			return badRequest(c, "Invalid remediation_status: "+string(req.RemediationStatus))
		}

		if ok, err := requireApplication(c, store, req.ApplicationKey); !ok {
			return err
		}

		v := model.NewVersion(req.ApplicationKey, req.Number)
		v.EndOfSupport = req.EndOfSupport
		v.EndOfContract = req.EndOfContract
		v.VendorEndOfSupport = req.VendorEndOfSupport
		v.Comment = req.Comment
		if req.RemediationStatus != "" {
			v.RemediationStatus = req.RemediationStatus
		}
		v.ParseAndSetVersion()

		if err := store.CreateVersion(c.UserContext(), v); err != nil {
			return serverError(c, err)
		}
		recordCreate(c, events, v.ApplicationKey, model.EntityVersion, v.Key, "Version "+v.Number+" created")
		return created(c, "Version created", v.Key)
	}
}

// PostDependency registers a dependency of an application
func PostDependency(store Store, events Timeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Dependency
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
		if req.ApplicationKey == "" || req.Name == "" {
			return badRequest(c, "application_key and name are required")
		}
		if req.Category == "" {
			req.Category = model.CategoryOther
		}
		if !req.Category.IsValid() {
			return badRequest(c, "Invalid category: "+string(req.Category))
		}

		if ok, err := requireApplication(c, store, req.ApplicationKey); !ok {
			return err
		}

		d := model.NewDependency(req.ApplicationKey, req.Name, req.Category)
		d.Version = req.Version
		d.Vendor = req.Vendor
		d.EndOfSupport = req.EndOfSupport
		d.NormalizedName = req.NormalizedName
		d.NormalizeName()
		if err := d.ParseAndSetVersion(); err != nil {
			return badRequest(c, err.Error())
		}

		if err := store.CreateDependency(c.UserContext(), d); err != nil {
			return serverError(c, err)
		}
		recordCreate(c, events, d.ApplicationKey, model.EntityDependency, d.Key, "Dependency "+d.Name+" added")
		return created(c, "Dependency created", d.Key)
	}
}
