package controller

import (
	"crypto/subtle"

	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	LawyerResponse(ctx *fiber.Ctx) error
	ConnectionStatus(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
	apiKey  string
	logger  logger.ILogger
}

// NewWebhookController guards the lawyer platform callbacks with apiKey.
// An empty key lets every request through.
func NewWebhookController(service service.IWebhookService, apiKey string, log logger.ILogger) IWebhookController {
	return &webhookController{service: service, apiKey: apiKey, logger: log}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks", c.requireAPIKey)
	h.Post("/lawyer-response", c.LawyerResponse)
	h.Post("/connection-status", c.ConnectionStatus)
}

func (c *webhookController) requireAPIKey(ctx *fiber.Ctx) error {
	if c.apiKey == "" {
		c.logger.Warn("Webhook", "ANWALT_API_KEY not set, accepting unauthenticated webhook", map[string]interface{}{"path": ctx.Path()})
		return ctx.Next()
	}
	if subtle.ConstantTimeCompare([]byte(ctx.Get("X-API-Key")), []byte(c.apiKey)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid API key")
	}
	return ctx.Next()
}

func (c *webhookController) LawyerResponse(ctx *fiber.Ctx) error {
	var req dto.LawyerResponseWebhookRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.LawyerResponse(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *webhookController) ConnectionStatus(ctx *fiber.Ctx) error {
	var req dto.ConnectionStatusWebhookRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ConnectionStatus(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
