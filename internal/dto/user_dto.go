package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	Id          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsVerified  bool      `json:"is_verified"`
	IsSuperuser bool      `json:"is_superuser"`
	Language    string    `json:"language"`
	PushToken   *string   `json:"push_token"`
	Timezone    *string   `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProfileResponse struct {
	Id                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Nickname          *string   `json:"nickname"`
	Language          string    `json:"language"`
	Timezone          *string   `json:"timezone"`
	Latitude          *string   `json:"latitude"`
	Longitude         *string   `json:"longitude"`
	FirstName         *string   `json:"first_name"`
	LastName          *string   `json:"last_name"`
	Phone             *string   `json:"phone"`
	AddressStreet     *string   `json:"address_street"`
	AddressCity       *string   `json:"address_city"`
	AddressPostalCode *string   `json:"address_postal_code"`
	LegalInsurance    *bool     `json:"legal_insurance"`
	InsuranceCompany  *string   `json:"insurance_company"`
	InsuranceNumber   *string   `json:"insurance_number"`
}

// UpdateProfileRequest applies only the fields that are present.
type UpdateProfileRequest struct {
	Nickname          *string `json:"nickname" validate:"omitempty,max=50"`
	Language          *string `json:"language" validate:"omitempty,oneof=de en"`
	Timezone          *string `json:"timezone" validate:"omitempty,max=50"`
	Latitude          *string `json:"latitude" validate:"omitempty,max=20"`
	Longitude         *string `json:"longitude" validate:"omitempty,max=20"`
	FirstName         *string `json:"first_name" validate:"omitempty,max=100"`
	LastName          *string `json:"last_name" validate:"omitempty,max=100"`
	Phone             *string `json:"phone" validate:"omitempty,max=30"`
	AddressStreet     *string `json:"address_street" validate:"omitempty,max=200"`
	AddressCity       *string `json:"address_city" validate:"omitempty,max=100"`
	AddressPostalCode *string `json:"address_postal_code" validate:"omitempty,max=10"`
	LegalInsurance    *bool   `json:"legal_insurance"`
	InsuranceCompany  *string `json:"insurance_company" validate:"omitempty,max=100"`
	InsuranceNumber   *string `json:"insurance_number" validate:"omitempty,max=50"`
}

type PushTokenRequest struct {
	PushToken string `json:"push_token" validate:"required"`
}

type PushTokenResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
