package http

import (
	"delivery-service/src/internal/delivery/http/middleware"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/usecase"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DriverController struct {
	Log     log.Log
	UseCase *usecase.DriverUseCase
}

func NewDriverController(useCase *usecase.DriverUseCase, logger log.Log) *DriverController {
	return &DriverController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *DriverController) Register(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RegisterDriverRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.Register", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID

	result := c.UseCase.Register(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Driver Registered", fiber.StatusCreated, ctx)
}

func (c *DriverController) Profile(ctx *fiber.Ctx) error {
	result := c.UseCase.Profile(ctx.UserContext(), middleware.GetUser(ctx))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Driver Profile", fiber.StatusOK, ctx)
}

func (c *DriverController) UpdateStatus(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.UpdateDriverStatusRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.UpdateStatus", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID

	result := c.UseCase.UpdateStatus(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Driver Status Updated", fiber.StatusOK, ctx)
}

func (c *DriverController) List(ctx *fiber.Ctx) error {
	result := c.UseCase.List(ctx.UserContext())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Drivers", fiber.StatusOK, ctx)
}

func (c *DriverController) SetActive(ctx *fiber.Ctx) error {
	request := new(model.SetDriverActiveRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.SetActive", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.DriverID = ctx.Params("id")

	result := c.UseCase.SetActive(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Driver Activation Updated", fiber.StatusOK, ctx)
}
