package controller

import (
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStatusController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	RegisterHealth(app fiber.Router)
	Health(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Agents(ctx *fiber.Ctx) error
	Conversation(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
}

type statusController struct {
	status service.IStatusService
	sync   service.ISyncService
}

func NewStatusController(status service.IStatusService, sync service.ISyncService) IStatusController {
	return &statusController{status: status, sync: sync}
}

// RegisterHealth mounts /health at the root, outside /api/v1.
func (c *statusController) RegisterHealth(app fiber.Router) {
	app.Get("/health", c.Health)
}

func (c *statusController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/status", c.Status)
	r.Get("/status/agents", c.Agents)
	r.Get("/status/conversations/:id", auth, c.Conversation)
	r.Post("/sync", auth, c.Sync)
}

func (c *statusController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.status.Health(ctx.UserContext()))
}

func (c *statusController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(c.status.Status())
}

func (c *statusController) Agents(ctx *fiber.Ctx) error {
	return ctx.JSON(c.status.Agents(ctx.UserContext()))
}

func (c *statusController) Conversation(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.status.Conversation(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *statusController) Sync(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.SyncRequest
	if len(ctx.Body()) > 0 {
		if err := bind(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.sync.Sync(ctx.UserContext(), userId, req.LastSyncedAt)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
