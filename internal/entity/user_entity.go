package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                uuid.UUID
	Email             string
	HashedPassword    *string
	IsActive          bool
	IsVerified        bool
	IsSuperuser       bool
	Nickname          *string
	Language          string
	PushToken         *string
	Timezone          *string
	Latitude          *string
	Longitude         *string
	FirstName         *string
	LastName          *string
	Phone             *string
	AddressStreet     *string
	AddressCity       *string
	AddressPostalCode *string
	LegalInsurance    *bool
	InsuranceCompany  *string
	InsuranceNumber   *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName prefers first/last name, then nickname, then the email.
func (u *User) DisplayName() string {
	if u.FirstName != nil && *u.FirstName != "" {
		if u.LastName != nil && *u.LastName != "" {
			return *u.FirstName + " " + *u.LastName
		}
		return *u.FirstName
	}
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.Email
}

type OAuthAccount struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	OAuthName    string
	AccountId    string
	AccountEmail string
	AccessToken  string
	ExpiresAt    *int64
	RefreshToken *string
	CreatedAt    time.Time
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
