package usecase

import (
	"context"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/gateway/routing"
	"delivery-service/src/internal/model"
	"delivery-service/src/pkg/geo"
)

type DeliveryStore interface {
	Create(ctx context.Context, delivery *entity.DeliveryRequest) error
	FindByID(ctx context.Context, id string) (*entity.DeliveryRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.DeliveryStatus, driverID *string, at time.Time) (bool, error)
	List(ctx context.Context, filter entity.DeliveryFilter) ([]entity.DeliveryRequest, error)
}

type DriverStore interface {
	Create(ctx context.Context, driver *entity.Driver) error
	FindByID(ctx context.Context, id string) (*entity.Driver, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Driver, error)
	List(ctx context.Context, limit int) ([]entity.Driver, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	UpdateAvailability(ctx context.Context, userID string, available bool, lat, lng *float64, at time.Time) error
}

// LedgerStore appends a transaction and moves the cached balance as one
// atomic unit, serialized per driver.
type LedgerStore interface {
	Append(ctx context.Context, tx *entity.PointTransaction) (int64, error)
	Balance(ctx context.Context, driverID string) (int64, error)
	ListByDriver(ctx context.Context, driverID string, limit int) ([]entity.PointTransaction, error)
}

type UserStore interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

type DistanceResolver interface {
	Resolve(ctx context.Context, origin, destination geo.Coordinate) (routing.Result, error)
}

type DeliveryPublisher interface {
	SendDeliveryEvent(event *model.DeliveryEvent) error
}

type PointsPublisher interface {
	SendPointsEvent(event *model.PointsEvent) error
}

type SettlementScheduler interface {
	EnqueueSettlement(ctx context.Context, deliveryID string) error
}
