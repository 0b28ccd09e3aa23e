package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthProviderGoogle = "google"
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type IOAuthService interface {
	GetLoginURL() (string, error)
	HandleCallback(ctx context.Context, code string) (*dto.TokenResponse, error)
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

type oauthService struct {
	uowFactory  unitofwork.RepositoryFactory
	authService IAuthService
	googleConf  *oauth2.Config
	userInfoURL string
	logger      logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, authService IAuthService, cfg config.OAuthConfig, log logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	if cfg.GoogleClientID == "" {
		log.Warn("OAuth", "GOOGLE_CLIENT_ID not set, Google login disabled", nil)
	}
	return &oauthService{
		uowFactory:  uowFactory,
		authService: authService,
		googleConf:  conf,
		userInfoURL: googleUserInfoURL,
		logger:      log,
	}
}

func (s *oauthService) GetLoginURL() (string, error) {
	if s.googleConf.ClientID == "" {
		return "", fiber.NewError(fiber.StatusServiceUnavailable, "Google login is not configured")
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	return s.googleConf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (s *oauthService) fetchUser(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	client := s.googleConf.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned %d", resp.StatusCode)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if gu.ID == "" || gu.Email == "" {
		return nil, fmt.Errorf("user info is missing id or email")
	}
	return &gu, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, code string) (*dto.TokenResponse, error) {
	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAuth", "code exchange failed", map[string]interface{}{"error": err})
		return nil, fiber.NewError(fiber.StatusBadRequest, "OAuth code exchange failed")
	}

	gu, err := s.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.upsert(ctx, gu, token)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, constant.MsgInactiveUser)
	}
	return s.authService.IssueToken(user)
}

// upsert links the Google account to an existing user by email or creates a passwordless one.
func (s *oauthService) upsert(ctx context.Context, gu *googleUser, token *oauth2.Token) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	account, err := uow.UserRepository().FindOAuthAccount(ctx, specification.ByOAuthAccount{Provider: oauthProviderGoogle, AccountID: gu.ID})
	if err != nil {
		return nil, err
	}

	var user *entity.User
	if account != nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByID{ID: account.UserId})
	} else {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: gu.Email})
	}
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &entity.User{
			Id:         uuid.New(),
			Email:      strings.ToLower(gu.Email),
			IsActive:   true,
			IsVerified: gu.VerifiedEmail,
			Language:   "de",
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("OAuth", "user created from google account", map[string]interface{}{"user_id": user.Id})
	} else if gu.VerifiedEmail && !user.IsVerified {
		if err := uow.UserRepository().MarkVerified(ctx, user.Id); err != nil {
			return nil, err
		}
		user.IsVerified = true
	}

	if account == nil {
		account = &entity.OAuthAccount{
			Id:        uuid.New(),
			UserId:    user.Id,
			OAuthName: oauthProviderGoogle,
			AccountId: gu.ID,
		}
	}
	account.AccountEmail = gu.Email
	account.AccessToken = token.AccessToken
	if !token.Expiry.IsZero() {
		exp := token.Expiry.Unix()
		account.ExpiresAt = &exp
	}
	if token.RefreshToken != "" {
		account.RefreshToken = strPtr(token.RefreshToken)
	}
	if err := uow.UserRepository().SaveOAuthAccount(ctx, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}
