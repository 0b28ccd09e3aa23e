package controller

import (
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnwaltController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Search(ctx *fiber.Ctx) error
	Connect(ctx *fiber.Ctx) error
	Connections(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type anwaltController struct {
	service service.ILawyerService
}

func NewAnwaltController(service service.ILawyerService) IAnwaltController {
	return &anwaltController{service: service}
}

func (c *anwaltController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/anwalt", auth)
	h.Get("/search", c.Search)
	h.Post("/connect", c.Connect)
	h.Get("/connections", c.Connections)
	h.Post("/connections/:id/cancel", c.Cancel)
}

func (c *anwaltController) Search(ctx *fiber.Ctx) error {
	var query dto.LawyerSearchQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	lawyers, err := c.service.Search(ctx.UserContext(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(lawyers)
}

func (c *anwaltController) Connect(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.ConnectRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Connect(ctx.UserContext(), userId, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *anwaltController) Connections(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.ListConnections(ctx.UserContext(), userId, ctx.Query("status_filter"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *anwaltController) Cancel(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Cancel(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
