package controller

import (
	"sumii-mobile-api/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// bind parses the JSON body into req and validates it.
func bind(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

// bindQuery is bind for query strings.
func bindQuery(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.QueryParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return serverutils.ValidateRequest(req)
}
