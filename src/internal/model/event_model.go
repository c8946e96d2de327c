package model

import (
	"time"

	"delivery-service/src/internal/entity"
)

// Event is anything published to Kafka; GetId is the message key.
type Event interface {
	GetId() string
}

const (
	EventDeliveryCreated       = "delivery.created"
	EventDeliveryStatusChanged = "delivery.status_changed"
	EventPointsAppended        = "driver.points_appended"
)

type DeliveryEvent struct {
	EventID    string                `json:"eventId"`
	Type       string                `json:"type"`
	DeliveryID string                `json:"deliveryId"`
	UserID     string                `json:"userId"`
	DriverID   *string               `json:"driverId,omitempty"`
	From       entity.DeliveryStatus `json:"from,omitempty"`
	To         entity.DeliveryStatus `json:"to"`
	DistanceKm float64               `json:"distanceKm"`
	PointsCost int64                 `json:"pointsCost"`
	OccurredAt time.Time             `json:"occurredAt"`
}

// GetId keys by delivery so every event of one delivery lands in one partition.
func (e *DeliveryEvent) GetId() string {
	return e.DeliveryID
}

type PointsEvent struct {
	EventID         string                 `json:"eventId"`
	Type            string                 `json:"type"`
	DriverID        string                 `json:"driverId"`
	TransactionID   string                 `json:"transactionId"`
	Amount          int64                  `json:"amount"`
	TransactionType entity.TransactionType `json:"transactionType"`
	DeliveryID      *string                `json:"deliveryId,omitempty"`
	Balance         int64                  `json:"balance"`
	OccurredAt      time.Time              `json:"occurredAt"`
}

func (e *PointsEvent) GetId() string {
	return e.DriverID
}
