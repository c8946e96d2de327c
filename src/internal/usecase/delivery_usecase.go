package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/gateway/routing"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/model/converter"
	"delivery-service/src/internal/observability"
	"delivery-service/src/internal/pricing"
	"delivery-service/src/internal/repository"
	"delivery-service/src/pkg/geo"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	listLimit        = 50
	pastDeliveryList = 10
)

type DeliveryUseCase struct {
	Log                log.Log
	Validate           *validator.Validate
	DeliveryRepository DeliveryStore
	DriverRepository   DriverStore
	Resolver           DistanceResolver
	Producer           DeliveryPublisher
	Settlement         SettlementScheduler
	Now                func() time.Time
}

func NewDeliveryUseCase(
	logger log.Log,
	validate *validator.Validate,
	deliveryRepository DeliveryStore,
	driverRepository DriverStore,
	resolver DistanceResolver,
	producer DeliveryPublisher,
	settlement SettlementScheduler,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		Log:                logger,
		Validate:           validate,
		DeliveryRepository: deliveryRepository,
		DriverRepository:   driverRepository,
		Resolver:           resolver,
		Producer:           producer,
		Settlement:         settlement,
		Now:                func() time.Time { return time.Now().UTC() },
	}
}

// Quote prices a trip without storing anything.
func (c *DeliveryUseCase) Quote(ctx context.Context, request *model.QuoteRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("delivery-usecase", err.Error(), "Quote", utils.ConvertString(request))
		return result
	}

	resolved, cost, err := c.price(ctx,
		geo.Coordinate{Lat: request.Pickup.Latitude, Lng: request.Pickup.Longitude},
		geo.Coordinate{Lat: request.Delivery.Latitude, Lng: request.Delivery.Longitude},
	)
	if err != nil {
		result.Error = err
		return result
	}

	result.Data = model.QuoteResponse{
		DistanceKm:     resolved.DistanceKm,
		DistanceSource: resolved.Source,
		PointsCost:     cost,
	}
	return result
}

// Create resolves the distance and prices the delivery once. Both values are
// stored with the request and never recomputed.
func (c *DeliveryUseCase) Create(ctx context.Context, request *model.CreateDeliveryRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("delivery-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	resolved, cost, err := c.price(ctx,
		geo.Coordinate{Lat: request.Pickup.Latitude, Lng: request.Pickup.Longitude},
		geo.Coordinate{Lat: request.Delivery.Latitude, Lng: request.Delivery.Longitude},
	)
	if err != nil {
		result.Error = err
		return result
	}

	now := c.Now()
	delivery := &entity.DeliveryRequest{
		ID:                uuid.NewString(),
		UserID:            request.UserID,
		PickupLatitude:    request.Pickup.Latitude,
		PickupLongitude:   request.Pickup.Longitude,
		PickupAddress:     request.Pickup.Address,
		DeliveryLatitude:  request.Delivery.Latitude,
		DeliveryLongitude: request.Delivery.Longitude,
		DeliveryAddress:   request.Delivery.Address,
		Status:            entity.StatusPending,
		DistanceKm:        resolved.DistanceKm,
		DistanceSource:    resolved.Source,
		PointsCost:        cost,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := c.DeliveryRepository.Create(ctx, delivery); err != nil {
		result.Error = internalError("failed to store delivery request")
		c.Log.Error("delivery-usecase", fmt.Sprintf("create delivery: %v", err), "Create", utils.ConvertString(delivery))
		return result
	}

	c.Log.Info("delivery-usecase", "delivery created", "Create",
		fmt.Sprintf("id=%s km=%.3f source=%s cost=%d", delivery.ID, delivery.DistanceKm, delivery.DistanceSource, delivery.PointsCost))
	c.publish(delivery, model.EventDeliveryCreated, "")

	result.Data = converter.DeliveryToResponse(delivery)
	return result
}

func (c *DeliveryUseCase) price(ctx context.Context, pickup, destination geo.Coordinate) (routing.Result, int64, error) {
	resolved, err := c.Resolver.Resolve(ctx, pickup, destination)
	if err != nil {
		c.Log.Error("delivery-usecase", err.Error(), "price", fmt.Sprintf("pickup=%s delivery=%s", pickup, destination))
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			return routing.Result{}, 0, badRequest("%v", err)
		}
		return routing.Result{}, 0, unprocessable("distance could not be resolved")
	}

	cost, err := pricing.Cost(resolved.DistanceKm)
	if err != nil {
		c.Log.Error("delivery-usecase", err.Error(), "price", utils.ConvertString(resolved))
		return routing.Result{}, 0, badRequest("%v", err)
	}
	return resolved, int64(cost), nil
}

func (c *DeliveryUseCase) Get(ctx context.Context, auth *model.Auth, request *model.GetDeliveryRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		return result
	}

	delivery, err := c.find(ctx, request.DeliveryID)
	if err != nil {
		result.Error = err
		return result
	}

	if !c.canView(ctx, auth, delivery) {
		result.Error = forbidden("delivery %s is not visible to this account", delivery.ID)
		return result
	}

	result.Data = converter.DeliveryToResponse(delivery)
	return result
}

func (c *DeliveryUseCase) canView(ctx context.Context, auth *model.Auth, delivery *entity.DeliveryRequest) bool {
	switch auth.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDriver:
		if delivery.Status == entity.StatusPending {
			return true
		}
		driver, err := c.DriverRepository.FindByUserID(ctx, auth.UserID)
		return err == nil && delivery.DriverID.Valid && delivery.DriverID.String == driver.ID
	default:
		return delivery.UserID == auth.UserID
	}
}

func (c *DeliveryUseCase) find(ctx context.Context, id string) (*entity.DeliveryRequest, error) {
	delivery, err := c.DeliveryRepository.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("delivery with id %s not found", id)
	}
	if err != nil {
		c.Log.Error("delivery-usecase", fmt.Sprintf("find delivery: %v", err), "find", id)
		return nil, internalError("failed to load delivery %s", id)
	}
	return delivery, nil
}

// TransitionStatus applies one edge of the delivery lifecycle. The stored
// status must still match what was read, so two concurrent transitions on
// the same delivery cannot both win.
func (c *DeliveryUseCase) TransitionStatus(ctx context.Context, auth *model.Auth, request *model.TransitionStatusRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("delivery-usecase", err.Error(), "TransitionStatus", utils.ConvertString(request))
		return result
	}

	delivery, err := c.find(ctx, request.DeliveryID)
	if err != nil {
		result.Error = err
		return result
	}

	from, to := delivery.Status, request.Status
	if err := entity.CheckTransition(from, to); err != nil {
		result.Error = conflict("%v", err)
		c.Log.Error("delivery-usecase", err.Error(), "TransitionStatus", delivery.ID)
		return result
	}

	assignee, err := c.authorizeTransition(ctx, auth, delivery, request)
	if err != nil {
		result.Error = err
		c.Log.Error("delivery-usecase", err.Error(), "TransitionStatus", utils.ConvertString(auth))
		return result
	}

	now := c.Now()
	ok, err := c.DeliveryRepository.UpdateStatus(ctx, delivery.ID, from, to, assignee, now)
	if err != nil {
		result.Error = internalError("failed to update delivery status")
		c.Log.Error("delivery-usecase", fmt.Sprintf("update status: %v", err), "TransitionStatus", delivery.ID)
		return result
	}
	if !ok {
		result.Error = conflict("delivery %s changed while updating, it is no longer %s", delivery.ID, from)
		c.Log.Error("delivery-usecase", result.Error.Error(), "TransitionStatus", "concurrent-update")
		return result
	}

	delivery.Status = to
	delivery.UpdatedAt = now
	if assignee != nil {
		delivery.DriverID = sql.NullString{String: *assignee, Valid: true}
	}
	observability.DeliveryTransitions.WithLabelValues(string(from), string(to)).Inc()
	c.publish(delivery, model.EventDeliveryStatusChanged, from)

	if to == entity.StatusDelivered && c.Settlement != nil {
		if err := c.Settlement.EnqueueSettlement(ctx, delivery.ID); err != nil {
			c.Log.Warn("delivery-usecase",
				fmt.Sprintf("delivered without settlement: %v. Recover with POST /v1/admin/drivers/%s/points/debit {amount: %d, deliveryId: %s}",
					err, delivery.DriverID.String, delivery.PointsCost, delivery.ID),
				"TransitionStatus", delivery.ID)
		}
	}

	result.Data = converter.DeliveryToResponse(delivery)
	return result
}

// authorizeTransition decides whether the caller may take this edge and
// returns the driver id to assign when the edge is an acceptance.
func (c *DeliveryUseCase) authorizeTransition(ctx context.Context, auth *model.Auth, delivery *entity.DeliveryRequest, request *model.TransitionStatusRequest) (*string, error) {
	switch auth.Role {
	case model.RoleAdmin:
		if request.Status != entity.StatusAccepted {
			return nil, nil
		}
		if request.DriverID == "" {
			return nil, badRequest("driverId is required to accept on behalf of a driver")
		}
		driver, err := c.DriverRepository.FindByID(ctx, request.DriverID)
		if err != nil {
			return nil, c.driverLookupError(err, request.DriverID)
		}
		if err := canAccept(driver, delivery); err != nil {
			return nil, err
		}
		return &driver.ID, nil

	case model.RoleDriver:
		driver, err := c.DriverRepository.FindByUserID(ctx, auth.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, forbidden("account %s is not registered as a driver", auth.UserID)
		}
		if err != nil {
			return nil, c.driverLookupError(err, auth.UserID)
		}
		if request.Status == entity.StatusAccepted {
			if err := canAccept(driver, delivery); err != nil {
				return nil, err
			}
			return &driver.ID, nil
		}
		if !delivery.DriverID.Valid || delivery.DriverID.String != driver.ID {
			return nil, forbidden("delivery %s is not assigned to this driver", delivery.ID)
		}
		return nil, nil

	default:
		if delivery.UserID != auth.UserID {
			return nil, forbidden("delivery %s belongs to another user", delivery.ID)
		}
		if delivery.Status != entity.StatusPending || request.Status != entity.StatusCancelled {
			return nil, forbidden("users may only cancel their own pending requests")
		}
		return nil, nil
	}
}

func canAccept(driver *entity.Driver, delivery *entity.DeliveryRequest) error {
	if !driver.IsActive {
		return conflict("driver %s is not active", driver.ID)
	}
	if driver.Points < delivery.PointsCost {
		return conflict("driver %s has %d points, delivery costs %d", driver.ID, driver.Points, delivery.PointsCost)
	}
	return nil
}

func (c *DeliveryUseCase) driverLookupError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("driver %s not found", id)
	}
	c.Log.Error("delivery-usecase", fmt.Sprintf("find driver: %v", err), "driverLookup", id)
	return internalError("failed to load driver %s", id)
}

func (c *DeliveryUseCase) publish(delivery *entity.DeliveryRequest, eventType string, from entity.DeliveryStatus) {
	if c.Producer == nil {
		return
	}
	event := converter.DeliveryToEvent(delivery, eventType, from)
	if err := c.Producer.SendDeliveryEvent(event); err != nil {
		c.Log.Error("delivery-usecase", fmt.Sprintf("failed publish delivery event: %+v", err), "publish", delivery.ID)
	}
}

// ListPending returns open requests a driver can accept, newest first.
func (c *DeliveryUseCase) ListPending(ctx context.Context) utils.Result {
	return c.list(ctx, entity.DeliveryFilter{
		Statuses: []entity.DeliveryStatus{entity.StatusPending},
		Limit:    listLimit,
	}, "ListPending")
}

func (c *DeliveryUseCase) ListForUser(ctx context.Context, auth *model.Auth) utils.Result {
	return c.list(ctx, entity.DeliveryFilter{UserID: &auth.UserID, Limit: listLimit}, "ListForUser")
}

func (c *DeliveryUseCase) ListAll(ctx context.Context) utils.Result {
	return c.list(ctx, entity.DeliveryFilter{Limit: listLimit}, "ListAll")
}

// ListForDriver returns the caller's active jobs, or the last few finished
// ones when scope is "past".
func (c *DeliveryUseCase) ListForDriver(ctx context.Context, auth *model.Auth, request *model.DriverDeliveriesRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		return result
	}

	driver, err := c.DriverRepository.FindByUserID(ctx, auth.UserID)
	if err != nil {
		result.Error = c.driverLookupError(err, auth.UserID)
		return result
	}

	filter := entity.DeliveryFilter{
		DriverID: &driver.ID,
		Statuses: []entity.DeliveryStatus{entity.StatusAccepted, entity.StatusPickedUp},
		Limit:    listLimit,
	}
	if request.Scope == "past" {
		filter.Statuses = []entity.DeliveryStatus{entity.StatusDelivered, entity.StatusCancelled}
		filter.Limit = pastDeliveryList
	}
	return c.list(ctx, filter, "ListForDriver")
}

func (c *DeliveryUseCase) list(ctx context.Context, filter entity.DeliveryFilter, scope string) utils.Result {
	var result utils.Result

	deliveries, err := c.DeliveryRepository.List(ctx, filter)
	if err != nil {
		result.Error = internalError("failed to list deliveries")
		c.Log.Error("delivery-usecase", fmt.Sprintf("list deliveries: %v", err), scope, utils.ConvertString(filter))
		return result
	}

	result.Data = converter.DeliveriesToResponse(deliveries)
	return result
}
