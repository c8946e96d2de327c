package model

import (
	"time"

	"delivery-service/src/internal/entity"
)

type PointRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type LocationRequest struct {
	PointRequest
	Address string `json:"address" validate:"required,max=512"`
}

type CreateDeliveryRequest struct {
	UserID   string          `json:"-" validate:"required,max=64"`
	Pickup   LocationRequest `json:"pickup" validate:"required"`
	Delivery LocationRequest `json:"delivery" validate:"required"`
}

type QuoteRequest struct {
	Pickup   PointRequest `json:"pickup" validate:"required"`
	Delivery PointRequest `json:"delivery" validate:"required"`
}

type QuoteResponse struct {
	DistanceKm     float64 `json:"distanceKm"`
	DistanceSource string  `json:"distanceSource"`
	PointsCost     int64   `json:"pointsCost"`
}

type TransitionStatusRequest struct {
	DeliveryID string                `json:"-" validate:"required,uuid"`
	Status     entity.DeliveryStatus `json:"status" validate:"required,oneof=pending accepted picked_up delivered cancelled"`
	// DriverID is only read on acceptance by an admin; drivers accept for themselves.
	DriverID string `json:"driverId,omitempty" validate:"omitempty,uuid"`
}

type GetDeliveryRequest struct {
	DeliveryID string `json:"-" validate:"required,uuid"`
}

type DriverDeliveriesRequest struct {
	Scope string `query:"scope" validate:"omitempty,oneof=active past"`
}

type DeliveryResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"userId"`
	DriverID       *string               `json:"driverId,omitempty"`
	Pickup         LocationResponse      `json:"pickup"`
	Delivery       LocationResponse      `json:"delivery"`
	Status         entity.DeliveryStatus `json:"status"`
	DistanceKm     float64               `json:"distanceKm"`
	DistanceSource string                `json:"distanceSource"`
	PointsCost     int64                 `json:"pointsCost"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
