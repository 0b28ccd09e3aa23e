package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email             string    `gorm:"type:varchar(320);uniqueIndex;not null"`
	HashedPassword    *string   `gorm:"type:varchar(1024)"`
	IsActive          bool      `gorm:"not null;default:true"`
	IsVerified        bool      `gorm:"not null;default:false"`
	IsSuperuser       bool      `gorm:"not null;default:false"`
	Nickname          *string   `gorm:"type:varchar(100)"`
	Language          string    `gorm:"type:varchar(5);default:'de'"`
	PushToken         *string   `gorm:"type:varchar(255)"`
	Timezone          *string   `gorm:"type:varchar(64)"`
	Latitude          *string   `gorm:"type:varchar(32)"`
	Longitude         *string   `gorm:"type:varchar(32)"`
	FirstName         *string   `gorm:"type:varchar(100)"`
	LastName          *string   `gorm:"type:varchar(100)"`
	Phone             *string   `gorm:"type:varchar(50)"`
	AddressStreet     *string   `gorm:"type:varchar(200)"`
	AddressCity       *string   `gorm:"type:varchar(100)"`
	AddressPostalCode *string   `gorm:"type:varchar(20)"`
	LegalInsurance    *bool
	InsuranceCompany  *string   `gorm:"type:varchar(200)"`
	InsuranceNumber   *string   `gorm:"type:varchar(100)"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.Id)
	return nil
}

type OAuthAccount struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	OAuthName    string    `gorm:"column:oauth_name;type:varchar(100);not null;uniqueIndex:idx_oauth_account,priority:1"`
	AccountId    string    `gorm:"type:varchar(320);not null;uniqueIndex:idx_oauth_account,priority:2"`
	AccountEmail string    `gorm:"type:varchar(320);not null"`
	AccessToken  string    `gorm:"type:varchar(1024);not null"`
	ExpiresAt    *int64
	RefreshToken *string   `gorm:"type:varchar(1024)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	User         User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (OAuthAccount) TableName() string {
	return "oauth_accounts"
}

func (o *OAuthAccount) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.Id)
	return nil
}

type PasswordResetToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	User      User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

func (p *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.Id)
	return nil
}

type EmailVerificationToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	User      User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}

func (e *EmailVerificationToken) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.Id)
	return nil
}
