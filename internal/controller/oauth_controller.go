package controller

import (
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Authorize(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
	logger  logger.ILogger
}

func NewOAuthController(service service.IOAuthService, log logger.ILogger) IOAuthController {
	return &oauthController{service: service, logger: log}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/google")
	h.Get("/authorize", c.Authorize)
	h.Get("/callback", c.Callback)
}

func (c *oauthController) Authorize(ctx *fiber.Ctx) error {
	url, err := c.service.GetLoginURL()
	if err != nil {
		return err
	}
	return ctx.JSON(dto.AuthorizeResponse{AuthorizationURL: url})
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code")
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), code)
	if err != nil {
		c.logger.Warn("OAuth", "google callback failed", map[string]interface{}{"error": err})
		return err
	}
	return ctx.JSON(res)
}
