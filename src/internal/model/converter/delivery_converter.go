package converter

import (
	"database/sql"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/model"
)

func DeliveryToResponse(delivery *entity.DeliveryRequest) *model.DeliveryResponse {
	return &model.DeliveryResponse{
		ID:       delivery.ID,
		UserID:   delivery.UserID,
		DriverID: nullString(delivery.DriverID),
		Pickup: model.LocationResponse{
			Latitude:  delivery.PickupLatitude,
			Longitude: delivery.PickupLongitude,
			Address:   delivery.PickupAddress,
		},
		Delivery: model.LocationResponse{
			Latitude:  delivery.DeliveryLatitude,
			Longitude: delivery.DeliveryLongitude,
			Address:   delivery.DeliveryAddress,
		},
		Status:         delivery.Status,
		DistanceKm:     delivery.DistanceKm,
		DistanceSource: delivery.DistanceSource,
		PointsCost:     delivery.PointsCost,
		CreatedAt:      delivery.CreatedAt,
		UpdatedAt:      delivery.UpdatedAt,
	}
}

func DeliveriesToResponse(deliveries []entity.DeliveryRequest) []model.DeliveryResponse {
	res := make([]model.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		res = append(res, *DeliveryToResponse(&deliveries[i]))
	}
	return res
}

func DeliveryToEvent(delivery *entity.DeliveryRequest, eventType string, from entity.DeliveryStatus) *model.DeliveryEvent {
	return &model.DeliveryEvent{
		Type:       eventType,
		DeliveryID: delivery.ID,
		UserID:     delivery.UserID,
		DriverID:   nullString(delivery.DriverID),
		From:       from,
		To:         delivery.Status,
		DistanceKm: delivery.DistanceKm,
		PointsCost: delivery.PointsCost,
		OccurredAt: delivery.UpdatedAt,
	}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
