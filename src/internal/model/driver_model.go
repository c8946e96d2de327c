package model

import (
	"time"

	"delivery-service/src/internal/entity"
)

type RegisterDriverRequest struct {
	UserID        string             `json:"-" validate:"required,max=64"`
	Name          string             `json:"name" validate:"required,max=128"`
	Phone         string             `json:"phone" validate:"required,max=32"`
	Email         string             `json:"email,omitempty" validate:"omitempty,email,max=128"`
	VehicleType   entity.VehicleType `json:"vehicleType" validate:"required,oneof=motorcycle tuktuk"`
	LicenseNumber string             `json:"licenseNumber" validate:"required,max=64"`
}

type UpdateDriverStatusRequest struct {
	UserID      string   `json:"-" validate:"required"`
	IsAvailable *bool    `json:"isAvailable" validate:"required"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"required_with=Latitude,omitempty,longitude"`
}

type SetDriverActiveRequest struct {
	DriverID string `json:"-" validate:"required,uuid"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

type DriverResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	Name             string             `json:"name"`
	Phone            string             `json:"phone"`
	Email            *string            `json:"email,omitempty"`
	VehicleType      entity.VehicleType `json:"vehicleType"`
	LicenseNumber    string             `json:"licenseNumber"`
	Points           int64              `json:"points"`
	IsAvailable      bool               `json:"isAvailable"`
	IsActive         bool               `json:"isActive"`
	CurrentLatitude  *float64           `json:"currentLatitude,omitempty"`
	CurrentLongitude *float64           `json:"currentLongitude,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}
