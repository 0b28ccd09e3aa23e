package mapper

import (
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                u.Id,
		Email:             u.Email,
		HashedPassword:    u.HashedPassword,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		IsSuperuser:       u.IsSuperuser,
		Nickname:          u.Nickname,
		Language:          u.Language,
		PushToken:         u.PushToken,
		Timezone:          u.Timezone,
		Latitude:          u.Latitude,
		Longitude:         u.Longitude,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Phone:             u.Phone,
		AddressStreet:     u.AddressStreet,
		AddressCity:       u.AddressCity,
		AddressPostalCode: u.AddressPostalCode,
		LegalInsurance:    u.LegalInsurance,
		InsuranceCompany:  u.InsuranceCompany,
		InsuranceNumber:   u.InsuranceNumber,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                u.Id,
		Email:             u.Email,
		HashedPassword:    u.HashedPassword,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		IsSuperuser:       u.IsSuperuser,
		Nickname:          u.Nickname,
		Language:          u.Language,
		PushToken:         u.PushToken,
		Timezone:          u.Timezone,
		Latitude:          u.Latitude,
		Longitude:         u.Longitude,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Phone:             u.Phone,
		AddressStreet:     u.AddressStreet,
		AddressCity:       u.AddressCity,
		AddressPostalCode: u.AddressPostalCode,
		LegalInsurance:    u.LegalInsurance,
		InsuranceCompany:  u.InsuranceCompany,
		InsuranceNumber:   u.InsuranceNumber,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

// Token mappers

func (m *UserMapper) OAuthAccountToEntity(a *model.OAuthAccount) *entity.OAuthAccount {
	if a == nil {
		return nil
	}
	return &entity.OAuthAccount{
		Id:           a.Id,
		UserId:       a.UserId,
		OAuthName:    a.OAuthName,
		AccountId:    a.AccountId,
		AccountEmail: a.AccountEmail,
		AccessToken:  a.AccessToken,
		ExpiresAt:    a.ExpiresAt,
		RefreshToken: a.RefreshToken,
		CreatedAt:    a.CreatedAt,
	}
}

func (m *UserMapper) OAuthAccountToModel(a *entity.OAuthAccount) *model.OAuthAccount {
	if a == nil {
		return nil
	}
	return &model.OAuthAccount{
		Id:           a.Id,
		UserId:       a.UserId,
		OAuthName:    a.OAuthName,
		AccountId:    a.AccountId,
		AccountEmail: a.AccountEmail,
		AccessToken:  a.AccessToken,
		ExpiresAt:    a.ExpiresAt,
		RefreshToken: a.RefreshToken,
		CreatedAt:    a.CreatedAt,
	}
}

func (m *UserMapper) PasswordResetTokenToEntity(t *model.PasswordResetToken) *entity.PasswordResetToken {
	if t == nil {
		return nil
	}
	return &entity.PasswordResetToken{Id: t.Id, UserId: t.UserId, TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt, CreatedAt: t.CreatedAt}
}

func (m *UserMapper) PasswordResetTokenToModel(t *entity.PasswordResetToken) *model.PasswordResetToken {
	if t == nil {
		return nil
	}
	return &model.PasswordResetToken{Id: t.Id, UserId: t.UserId, TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt, CreatedAt: t.CreatedAt}
}

func (m *UserMapper) EmailVerificationTokenToEntity(t *model.EmailVerificationToken) *entity.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &entity.EmailVerificationToken{Id: t.Id, UserId: t.UserId, TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt, CreatedAt: t.CreatedAt}
}

func (m *UserMapper) EmailVerificationTokenToModel(t *entity.EmailVerificationToken) *model.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &model.EmailVerificationToken{Id: t.Id, UserId: t.UserId, TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt, CreatedAt: t.CreatedAt}
}
