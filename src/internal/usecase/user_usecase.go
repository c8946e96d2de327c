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
)

type UserUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	UserRepository UserStore
	Now            func() time.Time
}

func NewUserUseCase(logger log.Log, validate *validator.Validate, userRepository UserStore) *UserUseCase {
	return &UserUseCase{
		Log:            logger,
		Validate:       validate,
		UserRepository: userRepository,
		Now:            func() time.Time { return time.Now().UTC() },
	}
}

func (c *UserUseCase) Create(ctx context.Context, request *model.CreateUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("user-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	now := c.Now()
	user := &entity.User{
		ID:        request.ID,
		Name:      request.Name,
		Email:     request.Email,
		Phone:     optional(request.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := c.UserRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrAlreadyExists) {
		result.Error = conflict("profile for user %s already exists", request.ID)
		return result
	}
	if err != nil {
		result.Error = internalError("failed to create profile")
		c.Log.Error("user-usecase", fmt.Sprintf("create user: %v", err), "Create", request.ID)
		return result
	}

	result.Data = converter.UserToResponse(user)
	return result
}

func (c *UserUseCase) GetUser(ctx context.Context, request *model.GetUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("user-usecase", err.Error(), "GetUser", utils.ConvertString(request))
		return result
	}

	user, err := c.UserRepository.FindByID(ctx, request.ID)
	if err != nil {
		result.Error = c.lookupError(err, request.ID, "GetUser")
		return result
	}

	result.Data = converter.UserToResponse(user)
	return result
}

func (c *UserUseCase) Update(ctx context.Context, request *model.UpdateUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("user-usecase", err.Error(), "Update", utils.ConvertString(request))
		return result
	}

	user, err := c.UserRepository.FindByID(ctx, request.ID)
	if err != nil {
		result.Error = c.lookupError(err, request.ID, "Update")
		return result
	}

	if request.Name != nil {
		user.Name = *request.Name
	}
	if request.Phone != nil {
		user.Phone = optional(*request.Phone)
	}
	user.UpdatedAt = c.Now()

	if err := c.UserRepository.Update(ctx, user); err != nil {
		result.Error = c.lookupError(err, request.ID, "Update")
		return result
	}

	result.Data = converter.UserToResponse(user)
	return result
}

func (c *UserUseCase) lookupError(err error, id, scope string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("user with id %s not found", id)
	}
	c.Log.Error("user-usecase", err.Error(), scope, id)
	return internalError("failed to load user %s", id)
}
