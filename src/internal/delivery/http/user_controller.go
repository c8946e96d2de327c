package http

import (
	"delivery-service/src/internal/delivery/http/middleware"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/usecase"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Log     log.Log
	UseCase *usecase.UserUseCase
}

func NewUserController(useCase *usecase.UserUseCase, logger log.Log) *UserController {
	return &UserController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *UserController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateUserRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("UserController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.ID = auth.UserID
	if request.Name == "" {
		request.Name = auth.FullName
	}

	result := c.UseCase.Create(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Profile Created", fiber.StatusCreated, ctx)
}

func (c *UserController) GetProfile(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GetUserRequest{
		ID: auth.UserID,
	}
	result := c.UseCase.GetUser(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "GetProfile", fiber.StatusOK, ctx)
}

func (c *UserController) UpdateProfile(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.UpdateUserRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("UserController.UpdateProfile", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.ID = auth.UserID

	result := c.UseCase.Update(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Profile Updated", fiber.StatusOK, ctx)
}
