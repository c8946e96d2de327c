package http

import (
	"delivery-service/src/internal/delivery/http/middleware"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/usecase"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DeliveryController struct {
	Log     log.Log
	UseCase *usecase.DeliveryUseCase
}

func NewDeliveryController(useCase *usecase.DeliveryUseCase, logger log.Log) *DeliveryController {
	return &DeliveryController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *DeliveryController) Quote(ctx *fiber.Ctx) error {
	request := new(model.QuoteRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DeliveryController.Quote", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}

	result := c.UseCase.Quote(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Quote", fiber.StatusOK, ctx)
}

func (c *DeliveryController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateDeliveryRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DeliveryController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID

	result := c.UseCase.Create(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Delivery Created", fiber.StatusCreated, ctx)
}

func (c *DeliveryController) Get(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GetDeliveryRequest{DeliveryID: ctx.Params("id")}
	result := c.UseCase.Get(ctx.UserContext(), auth, request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Delivery", fiber.StatusOK, ctx)
}

func (c *DeliveryController) TransitionStatus(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.TransitionStatusRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DeliveryController.TransitionStatus", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.DeliveryID = ctx.Params("id")

	result := c.UseCase.TransitionStatus(ctx.UserContext(), auth, request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Delivery Status Updated", fiber.StatusOK, ctx)
}

func (c *DeliveryController) ListPending(ctx *fiber.Ctx) error {
	result := c.UseCase.ListPending(ctx.UserContext())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Pending Deliveries", fiber.StatusOK, ctx)
}

func (c *DeliveryController) ListMine(ctx *fiber.Ctx) error {
	result := c.UseCase.ListForUser(ctx.UserContext(), middleware.GetUser(ctx))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "My Deliveries", fiber.StatusOK, ctx)
}

func (c *DeliveryController) ListForDriver(ctx *fiber.Ctx) error {
	request := new(model.DriverDeliveriesRequest)
	if err := ctx.QueryParser(request); err != nil {
		return utils.ResponseError(badBody(err), ctx)
	}

	result := c.UseCase.ListForDriver(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Driver Deliveries", fiber.StatusOK, ctx)
}

func (c *DeliveryController) ListAll(ctx *fiber.Ctx) error {
	result := c.UseCase.ListAll(ctx.UserContext())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Deliveries", fiber.StatusOK, ctx)
}
