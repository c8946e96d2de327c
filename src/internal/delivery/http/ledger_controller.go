package http

import (
	"delivery-service/src/internal/delivery/http/middleware"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/usecase"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type LedgerController struct {
	Log     log.Log
	UseCase *usecase.LedgerUseCase
}

func NewLedgerController(useCase *usecase.LedgerUseCase, logger log.Log) *LedgerController {
	return &LedgerController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *LedgerController) Credit(ctx *fiber.Ctx) error {
	request := new(model.CreditRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("LedgerController.Credit", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.DriverID = ctx.Params("id")

	result := c.UseCase.Credit(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Points Credited", fiber.StatusCreated, ctx)
}

func (c *LedgerController) Debit(ctx *fiber.Ctx) error {
	request := new(model.DebitRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("LedgerController.Debit", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.DriverID = ctx.Params("id")

	result := c.UseCase.Debit(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Points Debited", fiber.StatusCreated, ctx)
}

func (c *LedgerController) Balance(ctx *fiber.Ctx) error {
	result := c.UseCase.Balance(ctx.UserContext(), &model.BalanceRequest{DriverID: ctx.Params("id")})
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Points Balance", fiber.StatusOK, ctx)
}

func (c *LedgerController) Audit(ctx *fiber.Ctx) error {
	result := c.UseCase.Audit(ctx.UserContext(), &model.BalanceRequest{DriverID: ctx.Params("id")})
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Points Audit", fiber.StatusOK, ctx)
}

func (c *LedgerController) MyBalance(ctx *fiber.Ctx) error {
	result := c.UseCase.DriverBalance(ctx.UserContext(), middleware.GetUser(ctx))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Points Balance", fiber.StatusOK, ctx)
}
