package service

import (
	"context"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/expo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserService interface {
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	RegisterPushToken(ctx context.Context, userId uuid.UUID, req *dto.PushTokenRequest) (*dto.PushTokenResponse, error)
	RemovePushToken(ctx context.Context, userId uuid.UUID) (*dto.PushTokenResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IUserService {
	return &userService{uowFactory: uowFactory, logger: log}
}

func (s *userService) load(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgUserNotFound)
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.load(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.load(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.load(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		user.Nickname = req.Nickname
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.Timezone != nil {
		user.Timezone = req.Timezone
	}
	if req.Latitude != nil {
		user.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		user.Longitude = req.Longitude
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.AddressStreet != nil {
		user.AddressStreet = req.AddressStreet
	}
	if req.AddressCity != nil {
		user.AddressCity = req.AddressCity
	}
	if req.AddressPostalCode != nil {
		user.AddressPostalCode = req.AddressPostalCode
	}
	if req.LegalInsurance != nil {
		user.LegalInsurance = req.LegalInsurance
	}
	if req.InsuranceCompany != nil {
		user.InsuranceCompany = req.InsuranceCompany
	}
	if req.InsuranceNumber != nil {
		user.InsuranceNumber = req.InsuranceNumber
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

func (s *userService) RegisterPushToken(ctx context.Context, userId uuid.UUID, req *dto.PushTokenRequest) (*dto.PushTokenResponse, error) {
	if !expo.ValidToken(req.PushToken) {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgInvalidPushToken)
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.load(ctx, uow, userId); err != nil {
		return nil, err
	}
	token := req.PushToken
	if err := uow.UserRepository().SetPushToken(ctx, userId, &token); err != nil {
		return nil, err
	}
	return &dto.PushTokenResponse{Status: "registered", Message: "Push token registered successfully"}, nil
}

func (s *userService) RemovePushToken(ctx context.Context, userId uuid.UUID) (*dto.PushTokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().SetPushToken(ctx, userId, nil); err != nil {
		return nil, err
	}
	return &dto.PushTokenResponse{Status: "removed", Message: "Push token removed successfully"}, nil
}
