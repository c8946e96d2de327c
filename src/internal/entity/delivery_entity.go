package entity

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"delivery-service/src/pkg/geo"
)

type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusAccepted  DeliveryStatus = "accepted"
	StatusPickedUp  DeliveryStatus = "picked_up"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
)

var ErrIllegalTransition = errors.New("illegal status transition")

var transitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusPickedUp, StatusCancelled},
	StatusPickedUp: {StatusDelivered, StatusCancelled},
}

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPickedUp, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrIllegalTransition for any edge outside the
// delivery lifecycle, including every edge leaving a terminal status.
func CheckTransition(from, to DeliveryStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// DeliveryRequest is one delivery job. DistanceKm and PointsCost are written
// once at creation and no update statement touches them afterwards.
type DeliveryRequest struct {
	ID                string         `db:"id" gorm:"column:id;type:char(36);primaryKey"`
	UserID            string         `db:"user_id" gorm:"column:user_id;type:varchar(64);not null;index"`
	DriverID          sql.NullString `db:"driver_id" gorm:"column:driver_id;type:char(36);index"`
	PickupLatitude    float64        `db:"pickup_latitude" gorm:"column:pickup_latitude;not null"`
	PickupLongitude   float64        `db:"pickup_longitude" gorm:"column:pickup_longitude;not null"`
	PickupAddress     string         `db:"pickup_address" gorm:"column:pickup_address;type:varchar(512);not null"`
	DeliveryLatitude  float64        `db:"delivery_latitude" gorm:"column:delivery_latitude;not null"`
	DeliveryLongitude float64        `db:"delivery_longitude" gorm:"column:delivery_longitude;not null"`
	DeliveryAddress   string         `db:"delivery_address" gorm:"column:delivery_address;type:varchar(512);not null"`
	Status            DeliveryStatus `db:"status" gorm:"column:status;type:varchar(16);not null;index"`
	DistanceKm        float64        `db:"distance_km" gorm:"column:distance_km;not null"`
	DistanceSource    string         `db:"distance_source" gorm:"column:distance_source;type:varchar(16);not null"`
	PointsCost        int64          `db:"points_cost" gorm:"column:points_cost;not null"`
	CreatedAt         time.Time      `db:"created_at" gorm:"column:created_at;not null;index"`
	UpdatedAt         time.Time      `db:"updated_at" gorm:"column:updated_at;not null"`
}

func (DeliveryRequest) TableName() string {
	return "delivery_requests"
}

func (d *DeliveryRequest) Pickup() geo.Coordinate {
	return geo.Coordinate{Lat: d.PickupLatitude, Lng: d.PickupLongitude}
}

func (d *DeliveryRequest) Destination() geo.Coordinate {
	return geo.Coordinate{Lat: d.DeliveryLatitude, Lng: d.DeliveryLongitude}
}

type DeliveryFilter struct {
	UserID   *string
	DriverID *string
	Statuses []DeliveryStatus
	Limit    int
}
