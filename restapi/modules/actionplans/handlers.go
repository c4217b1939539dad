// Package actionplans implements the REST API handlers for the remediation
// plans of applications. A plan linked to a version drives that version's
// remediation status.
package actionplans

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/restapi/modules/auth"
	"github.com/ortelius/obsolescence-backend/util"
)

// Store is the persistence used by the action plan handlers
type Store interface {
	GetApplication(ctx context.Context, key string) (*model.ApplicationItem, error)
	GetVersion(ctx context.Context, key string) (*model.Version, error)
	SetRemediationStatus(ctx context.Context, versionKey string, status model.RemediationStatus) error
	ListActionPlans(ctx context.Context, applicationKey string) ([]model.ActionPlan, error)
	GetActionPlan(ctx context.Context, key string) (*model.ActionPlan, error)
	CreateActionPlan(ctx context.Context, p *model.ActionPlan) error
	UpdateActionPlan(ctx context.Context, p *model.ActionPlan) error
	DeleteActionPlan(ctx context.Context, key string) error
}

// Timeline records the audit trail of plan changes
type Timeline interface {
	Record(ctx context.Context, e model.TimelineEvent)
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func record(c *fiber.Ctx, events Timeline, p *model.ActionPlan, eventType, description string) {
	username := ""
	if caller, ok := auth.CallerFrom(c); ok {
		username = caller.Username
	}
	events.Record(c.UserContext(), *model.NewTimelineEvent(p.ApplicationKey, model.EntityActionPlan, p.Key, eventType, description, username))
}

// syncVersion moves the linked version to the remediation state of the plan
func syncVersion(ctx context.Context, store Store, p *model.ActionPlan) error {
	if p.VersionKey == "" {
		return nil
	}
	status, ok := p.Status.Remediation()
	if !ok {
		return nil
	}
	return store.SetRemediationStatus(ctx, p.VersionKey, status)
}

// ListActionPlans returns the plans ordered by due date, filtered by ?application_id when set
func ListActionPlans(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListActionPlans(c.UserContext(), c.Query("application_id"))
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(items)
	}
}

// PostActionPlan creates a plan for an application and optionally one of its versions
func PostActionPlan(store Store, events Timeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.ActionPlan
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
		}
		if req.ApplicationKey == "" || strings.TrimSpace(req.Title) == "" {
			return errorResponse(c, fiber.StatusBadRequest, "application_key and title are required")
		}
		if req.Status != "" && !req.Status.IsValid() {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid status: "+string(req.Status))
		}

		ctx := c.UserContext()
		app, err := store.GetApplication(ctx, req.ApplicationKey)
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		if app == nil {
			return errorResponse(c, fiber.StatusNotFound, "Application not found: "+req.ApplicationKey)
		}

		if req.VersionKey != "" {
			v, err := store.GetVersion(ctx, req.VersionKey)
			if err != nil {
				return errorResponse(c, fiber.StatusInternalServerError, err.Error())
			}
			if v == nil || v.ApplicationKey != req.ApplicationKey {
				return errorResponse(c, fiber.StatusBadRequest, "Version "+req.VersionKey+" does not belong to application "+req.ApplicationKey)
			}
		}

		p := model.NewActionPlan(req.ApplicationKey, strings.TrimSpace(req.Title))
		p.VersionKey = req.VersionKey
		p.Owner = req.Owner
		p.DueDate = req.DueDate
		p.Notes = req.Notes
		if req.Status != "" {
			p.Status = req.Status
		}

		if err := store.CreateActionPlan(ctx, p); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		if err := syncVersion(ctx, store, p); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		record(c, events, p, model.EventCreate, fmt.Sprintf("Action plan '%s' created", p.Title))

		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PutActionPlan applies a partial update to a plan
func PutActionPlan(store Store, events Timeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.ActionPlanUpdate
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
		}
		if req.Status != nil && !req.Status.IsValid() {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid status: "+string(*req.Status))
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
			return errorResponse(c, fiber.StatusBadRequest, "title must not be empty")
		}

		ctx := c.UserContext()
		key := c.Params("key")
		p, err := store.GetActionPlan(ctx, key)
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		if p == nil {
			return errorResponse(c, fiber.StatusNotFound, "Action plan not found: "+key)
		}

		changed := req.Apply(p)
		if len(changed) == 0 {
			return c.JSON(p)
		}

		if err := store.UpdateActionPlan(ctx, p); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		if util.Contains(changed, "status") {
			if err := syncVersion(ctx, store, p); err != nil {
				return errorResponse(c, fiber.StatusInternalServerError, err.Error())
			}
		}
		record(c, events, p, model.EventUpdate,
			fmt.Sprintf("Action plan '%s' updated: %s", p.Title, strings.Join(changed, ", ")))

		return c.JSON(p)
	}
}

// DeleteActionPlan removes a plan
func DeleteActionPlan(store Store, events Timeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := c.Params("key")
		p, err := store.GetActionPlan(ctx, key)
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		if p == nil {
			return errorResponse(c, fiber.StatusNotFound, "Action plan not found: "+key)
		}

		if err := store.DeleteActionPlan(ctx, key); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		record(c, events, p, model.EventDelete, fmt.Sprintf("Action plan '%s' deleted", p.Title))

		return c.SendStatus(fiber.StatusNoContent)
	}
}
