package controller

import (
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	UnreadCount(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	MarkAllRead(ctx *fiber.Ctx) error
	MarkActioned(ctx *fiber.Ctx) error
}

type notificationController struct {
	service service.INotificationService
}

func NewNotificationController(service service.INotificationService) INotificationController {
	return &notificationController{service: service}
}

func (c *notificationController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/notifications", auth)
	h.Get("", c.List)
	h.Get("/unread-count", c.UnreadCount)
	h.Patch("/read-all", c.MarkAllRead)
	h.Patch("/:id/read", c.MarkRead)
	h.Patch("/:id/actioned", c.MarkActioned)
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var query dto.NotificationListQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId, query)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *notificationController) UnreadCount(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.UnreadCount(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.MarkRead(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *notificationController) MarkAllRead(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.MarkAllRead(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *notificationController) MarkActioned(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.MarkActioned(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
