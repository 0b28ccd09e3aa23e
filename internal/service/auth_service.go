package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/mailer"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/repository/contract"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	RequestVerifyToken(ctx context.Context, req *dto.RequestVerifyTokenRequest) error
	Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.UserResponse, error)
	IssueToken(user *entity.User) (*dto.TokenResponse, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	jwt          config.JWTConfig
	logger       logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, jwtCfg config.JWTConfig, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		jwt:          jwtCfg,
		logger:       log,
	}
}

func (s *authService) IssueToken(user *entity.User) (*dto.TokenResponse, error) {
	ttl := time.Duration(s.jwt.ExpireMinutes) * time.Minute
	token, err := serverutils.GenerateToken(s.jwt.Secret, user.Id, user.Email, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgEmailRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:             uuid.New(),
		Email:          email,
		HashedPassword: &hashStr,
		IsActive:       true,
		Language:       "de",
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgEmailRegistered)
		}
		return nil, err
	}

	s.logger.Info("Auth", "user registered", map[string]interface{}{"user_id": user.Id})
	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.HashedPassword == nil || !user.IsActive {
		return nil, fiber.NewError(fiber.StatusUnauthorized, constant.MsgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, constant.MsgInvalidCredentials)
	}
	return s.IssueToken(user)
}

// ForgotPassword never reveals whether the address exists.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email}, specification.ActiveUsers{})
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, hash, err := newOpaqueToken()
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().DeletePasswordResetTokens(ctx, user.Id); err != nil {
		return err
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hash,
		ExpiresAt: now().Add(constant.PasswordResetTTL),
	}); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordReset(user.Email, token); err != nil {
		s.logger.Warn("Auth", "password reset email not sent", map[string]interface{}{"user_id": user.Id, "error": err})
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	token, err := uow.UserRepository().FindPasswordResetToken(ctx,
		specification.ByTokenHash{Hash: hashToken(req.Token)},
		specification.NotExpired{Now: now()},
	)
	if err != nil {
		return err
	}
	if token == nil {
		return fiber.NewError(fiber.StatusBadRequest, constant.MsgInvalidToken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, token.UserId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().DeletePasswordResetTokens(ctx, token.UserId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *authService) RequestVerifyToken(ctx context.Context, req *dto.RequestVerifyTokenRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email}, specification.ActiveUsers{})
	if err != nil {
		return err
	}
	if user == nil || user.IsVerified {
		return nil
	}

	token, hash, err := newOpaqueToken()
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().DeleteEmailVerificationTokens(ctx, user.Id); err != nil {
		return err
	}
	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hash,
		ExpiresAt: now().Add(constant.EmailVerificationTTL),
	}); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.emailService.SendVerification(user.Email, token); err != nil {
		s.logger.Warn("Auth", "verification email not sent", map[string]interface{}{"user_id": user.Id, "error": err})
	}
	return nil
}

func (s *authService) Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	token, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.ByTokenHash{Hash: hashToken(req.Token)},
		specification.NotExpired{Now: now()},
	)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgInvalidToken)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().MarkVerified(ctx, token.UserId); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().DeleteEmailVerificationTokens(ctx, token.UserId); err != nil {
		return nil, err
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: token.UserId})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgInvalidToken)
	}
	return toUserResponse(user), nil
}
