package controller

import (
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
	RequestVerifyToken(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	loginLimiter fiber.Handler
}

// NewAuthController wires loginLimiter in front of POST /auth/login.
func NewAuthController(service service.IAuthService, loginLimiter fiber.Handler) IAuthController {
	return &authController{service: service, loginLimiter: loginLimiter}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	if c.loginLimiter != nil {
		h.Post("/login", c.loginLimiter, c.Login)
	} else {
		h.Post("/login", c.Login)
	}
	h.Post("/forgot-password", c.ForgotPassword)
	h.Post("/reset-password", c.ResetPassword)
	h.Post("/request-verify-token", c.RequestVerifyToken)
	h.Post("/verify", c.Verify)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.service.ForgotPassword(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("If the email exists, a reset link has been sent", nil))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password reset successful", nil))
}

func (c *authController) RequestVerifyToken(ctx *fiber.Ctx) error {
	var req dto.RequestVerifyTokenRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.service.RequestVerifyToken(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("If the email exists, a verification link has been sent", nil))
}

func (c *authController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Verify(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
