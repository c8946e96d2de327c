package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/model/converter"
	"delivery-service/src/internal/repository"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type DriverUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	DriverRepository DriverStore
	Now              func() time.Time
}

func NewDriverUseCase(logger log.Log, validate *validator.Validate, driverRepository DriverStore) *DriverUseCase {
	return &DriverUseCase{
		Log:              logger,
		Validate:         validate,
		DriverRepository: driverRepository,
		Now:              func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the driver profile of the calling account. New drivers
// start with zero points, unavailable, and inactive until an admin approves.
func (c *DriverUseCase) Register(ctx context.Context, request *model.RegisterDriverRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("driver-usecase", err.Error(), "Register", utils.ConvertString(request))
		return result
	}

	now := c.Now()
	driver := &entity.Driver{
		ID:            uuid.NewString(),
		UserID:        request.UserID,
		Name:          request.Name,
		Phone:         request.Phone,
		Email:         optional(request.Email),
		VehicleType:   request.VehicleType,
		LicenseNumber: request.LicenseNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := c.DriverRepository.Create(ctx, driver)
	if errors.Is(err, repository.ErrAlreadyExists) {
		result.Error = conflict("account %s is already registered as a driver", request.UserID)
		return result
	}
	if err != nil {
		result.Error = internalError("failed to register driver")
		c.Log.Error("driver-usecase", fmt.Sprintf("create driver: %v", err), "Register", request.UserID)
		return result
	}

	c.Log.Info("driver-usecase", "driver registered", "Register", driver.ID)
	result.Data = converter.DriverToResponse(driver)
	return result
}

func (c *DriverUseCase) Profile(ctx context.Context, auth *model.Auth) utils.Result {
	var result utils.Result

	driver, err := c.DriverRepository.FindByUserID(ctx, auth.UserID)
	if err != nil {
		result.Error = c.lookupError(err, auth.UserID, "Profile")
		return result
	}

	result.Data = converter.DriverToResponse(driver)
	return result
}

func (c *DriverUseCase) UpdateStatus(ctx context.Context, request *model.UpdateDriverStatusRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("driver-usecase", err.Error(), "UpdateStatus", utils.ConvertString(request))
		return result
	}

	err := c.DriverRepository.UpdateAvailability(ctx, request.UserID, *request.IsAvailable, request.Latitude, request.Longitude, c.Now())
	if err != nil {
		result.Error = c.lookupError(err, request.UserID, "UpdateStatus")
		return result
	}

	return c.Profile(ctx, &model.Auth{UserID: request.UserID, Role: model.RoleDriver})
}

func (c *DriverUseCase) List(ctx context.Context) utils.Result {
	var result utils.Result

	drivers, err := c.DriverRepository.List(ctx, listLimit)
	if err != nil {
		result.Error = internalError("failed to list drivers")
		c.Log.Error("driver-usecase", fmt.Sprintf("list drivers: %v", err), "List", "")
		return result
	}

	result.Data = converter.DriversToResponse(drivers)
	return result
}

func (c *DriverUseCase) SetActive(ctx context.Context, request *model.SetDriverActiveRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		return result
	}

	if err := c.DriverRepository.SetActive(ctx, request.DriverID, *request.IsActive, c.Now()); err != nil {
		result.Error = c.lookupError(err, request.DriverID, "SetActive")
		return result
	}

	driver, err := c.DriverRepository.FindByID(ctx, request.DriverID)
	if err != nil {
		result.Error = c.lookupError(err, request.DriverID, "SetActive")
		return result
	}

	c.Log.Info("driver-usecase", "driver activation changed", "SetActive", fmt.Sprintf("driver=%s active=%t", driver.ID, driver.IsActive))
	result.Data = converter.DriverToResponse(driver)
	return result
}

func (c *DriverUseCase) lookupError(err error, id, scope string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("driver %s not found", id)
	}
	c.Log.Error("driver-usecase", err.Error(), scope, id)
	return internalError("failed to load driver %s", id)
}
