package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/gateway/task"
	"delivery-service/src/internal/model"
	"delivery-service/src/internal/model/converter"
	"delivery-service/src/internal/observability"
	"delivery-service/src/internal/repository"
	"delivery-service/src/pkg/log"
	"delivery-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ErrNotSettleable marks a settlement that can never succeed, so the job
// must not be retried.
var ErrNotSettleable = errors.New("delivery cannot be settled")

// LedgerUseCase is the only writer of point transactions and, through the
// ledger repository, of the drivers' cached points.
type LedgerUseCase struct {
	Log                log.Log
	Validate           *validator.Validate
	LedgerRepository   LedgerStore
	DriverRepository   DriverStore
	DeliveryRepository DeliveryStore
	Producer           PointsPublisher
	Now                func() time.Time
}

func NewLedgerUseCase(
	logger log.Log,
	validate *validator.Validate,
	ledgerRepository LedgerStore,
	driverRepository DriverStore,
	deliveryRepository DeliveryStore,
	producer PointsPublisher,
) *LedgerUseCase {
	return &LedgerUseCase{
		Log:                logger,
		Validate:           validate,
		LedgerRepository:   ledgerRepository,
		DriverRepository:   driverRepository,
		DeliveryRepository: deliveryRepository,
		Producer:           producer,
		Now:                func() time.Time { return time.Now().UTC() },
	}
}

func (c *LedgerUseCase) Credit(ctx context.Context, request *model.CreditRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("ledger-usecase", err.Error(), "Credit", utils.ConvertString(request))
		return result
	}
	if request.Amount <= 0 {
		result.Error = badRequest("amount must be greater than zero, got %d", request.Amount)
		c.Log.Error("ledger-usecase", result.Error.Error(), "Credit", request.DriverID)
		return result
	}

	txType := request.Type
	if txType == "" {
		txType = entity.TransactionAdminAdd
	}

	entry, err := c.append(ctx, &entity.PointTransaction{
		DriverID:        request.DriverID,
		Amount:          request.Amount,
		TransactionType: txType,
		Notes:           optional(request.Notes),
	})
	if err != nil {
		result.Error = c.ledgerError(err, request.DriverID, "Credit")
		return result
	}

	result.Data = entry
	return result
}

// Debit stores -amount. When a delivery is linked it has to be delivered by
// this driver, the amount has to be its points cost, and the entry is
// recorded as its deduction.
func (c *LedgerUseCase) Debit(ctx context.Context, request *model.DebitRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		c.Log.Error("ledger-usecase", err.Error(), "Debit", utils.ConvertString(request))
		return result
	}
	if request.Amount <= 0 {
		result.Error = badRequest("amount must be greater than zero, got %d", request.Amount)
		c.Log.Error("ledger-usecase", result.Error.Error(), "Debit", request.DriverID)
		return result
	}

	pt := &entity.PointTransaction{
		DriverID:        request.DriverID,
		Amount:          -request.Amount,
		TransactionType: entity.TransactionSystem,
		Notes:           optional(request.Notes),
	}

	if request.DeliveryID != "" {
		delivery, err := c.DeliveryRepository.FindByID(ctx, request.DeliveryID)
		if errors.Is(err, repository.ErrNotFound) {
			result.Error = notFound("delivery with id %s not found", request.DeliveryID)
			return result
		}
		if err != nil {
			result.Error = internalError("failed to load delivery %s", request.DeliveryID)
			c.Log.Error("ledger-usecase", fmt.Sprintf("find delivery: %v", err), "Debit", request.DeliveryID)
			return result
		}
		if delivery.PointsCost != request.Amount {
			result.Error = badRequest("delivery %s costs %d points, not %d", delivery.ID, delivery.PointsCost, request.Amount)
			return result
		}
		if delivery.Status != entity.StatusDelivered {
			result.Error = conflict("delivery %s is %s, only delivered deliveries can be deducted", delivery.ID, delivery.Status)
			return result
		}
		if !delivery.DriverID.Valid || delivery.DriverID.String != request.DriverID {
			result.Error = badRequest("delivery %s is not assigned to driver %s", delivery.ID, request.DriverID)
			return result
		}
		pt.TransactionType = entity.TransactionDeliveryDeduction
		pt.DeliveryID = optional(delivery.ID)
	}

	entry, err := c.append(ctx, pt)
	if err != nil {
		result.Error = c.ledgerError(err, request.DriverID, "Debit")
		return result
	}

	result.Data = entry
	return result
}

func (c *LedgerUseCase) append(ctx context.Context, pt *entity.PointTransaction) (*model.LedgerEntryResponse, error) {
	if pt.Amount == 0 {
		return nil, badRequest("amount must not be zero")
	}
	pt.ID = uuid.NewString()
	pt.CreatedAt = c.Now()

	balance, err := c.LedgerRepository.Append(ctx, pt)
	if err != nil {
		return nil, err
	}

	observability.LedgerTransactions.WithLabelValues(string(pt.TransactionType)).Inc()
	c.Log.Info("ledger-usecase", "point transaction appended", "append",
		fmt.Sprintf("driver=%s amount=%d type=%s balance=%d", pt.DriverID, pt.Amount, pt.TransactionType, balance))

	if c.Producer != nil {
		if err := c.Producer.SendPointsEvent(converter.TransactionToEvent(pt, balance)); err != nil {
			c.Log.Error("ledger-usecase", fmt.Sprintf("failed publish points event: %+v", err), "append", pt.ID)
		}
	}

	return &model.LedgerEntryResponse{
		Transaction: *converter.TransactionToResponse(pt),
		Balance:     balance,
	}, nil
}

func (c *LedgerUseCase) ledgerError(err error, driverID, scope string) error {
	var statusErr interface{ StatusCode() int }
	switch {
	case errors.As(err, &statusErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return notFound("driver with id %s not found", driverID)
	case errors.Is(err, repository.ErrDuplicateDeduction):
		return conflict("delivery was already deducted from driver %s", driverID)
	}
	c.Log.Error("ledger-usecase", fmt.Sprintf("append transaction: %v", err), scope, driverID)
	return internalError("failed to record point transaction")
}

// Balance sums the ledger for the driver. A driver with no transactions has
// balance 0.
func (c *LedgerUseCase) Balance(ctx context.Context, request *model.BalanceRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		return result
	}

	if _, err := c.DriverRepository.FindByID(ctx, request.DriverID); err != nil {
		result.Error = c.driverError(err, request.DriverID, "Balance")
		return result
	}

	return c.balance(ctx, request.DriverID)
}

// DriverBalance is Balance for the driver behind the caller's account.
func (c *LedgerUseCase) DriverBalance(ctx context.Context, auth *model.Auth) utils.Result {
	var result utils.Result

	driver, err := c.DriverRepository.FindByUserID(ctx, auth.UserID)
	if err != nil {
		result.Error = c.driverError(err, auth.UserID, "DriverBalance")
		return result
	}

	return c.balance(ctx, driver.ID)
}

func (c *LedgerUseCase) balance(ctx context.Context, driverID string) utils.Result {
	var result utils.Result

	sum, err := c.LedgerRepository.Balance(ctx, driverID)
	if err != nil {
		result.Error = internalError("failed to sum point transactions")
		c.Log.Error("ledger-usecase", fmt.Sprintf("balance: %v", err), "balance", driverID)
		return result
	}

	txs, err := c.LedgerRepository.ListByDriver(ctx, driverID, listLimit)
	if err != nil {
		result.Error = internalError("failed to list point transactions")
		c.Log.Error("ledger-usecase", fmt.Sprintf("list transactions: %v", err), "balance", driverID)
		return result
	}

	result.Data = model.BalanceResponse{
		DriverID:     driverID,
		Balance:      sum,
		Transactions: converter.TransactionsToResponse(txs),
	}
	return result
}

// Audit compares the cached points column with the ledger sum.
func (c *LedgerUseCase) Audit(ctx context.Context, request *model.BalanceRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = badRequest("validation error: %v", err.Error())
		return result
	}

	driver, err := c.DriverRepository.FindByID(ctx, request.DriverID)
	if err != nil {
		result.Error = c.driverError(err, request.DriverID, "Audit")
		return result
	}

	sum, err := c.LedgerRepository.Balance(ctx, driver.ID)
	if err != nil {
		result.Error = internalError("failed to sum point transactions")
		c.Log.Error("ledger-usecase", fmt.Sprintf("audit: %v", err), "Audit", driver.ID)
		return result
	}

	audit := model.LedgerAuditResponse{
		DriverID:     driver.ID,
		LedgerSum:    sum,
		CachedPoints: driver.Points,
		Consistent:   sum == driver.Points,
	}
	if !audit.Consistent {
		c.Log.Warn("ledger-usecase", "cached points drifted from ledger", "Audit", utils.ConvertString(audit))
	}

	result.Data = audit
	return result
}

func (c *LedgerUseCase) driverError(err error, id, scope string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("driver %s not found", id)
	}
	c.Log.Error("ledger-usecase", fmt.Sprintf("find driver: %v", err), scope, id)
	return internalError("failed to load driver %s", id)
}

// SettleDelivery deducts a delivered job's points cost from its driver. A
// second settlement of the same delivery is a no-op.
func (c *LedgerUseCase) SettleDelivery(ctx context.Context, deliveryID string) error {
	delivery, err := c.DeliveryRepository.FindByID(ctx, deliveryID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: delivery %s not found", ErrNotSettleable, deliveryID)
	}
	if err != nil {
		return err
	}
	if delivery.Status != entity.StatusDelivered || !delivery.DriverID.Valid {
		return fmt.Errorf("%w: delivery %s is %s", ErrNotSettleable, deliveryID, delivery.Status)
	}

	_, err = c.append(ctx, &entity.PointTransaction{
		DriverID:        delivery.DriverID.String,
		Amount:          -delivery.PointsCost,
		TransactionType: entity.TransactionDeliveryDeduction,
		DeliveryID:      optional(delivery.ID),
		Notes:           optional(fmt.Sprintf("delivery %s completed", delivery.ID)),
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateDeduction):
		c.Log.Info("ledger-usecase", "delivery already settled", "SettleDelivery", deliveryID)
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: driver %s not found", ErrNotSettleable, delivery.DriverID.String)
	case err != nil:
		return err
	}
	return nil
}

// HandleSettlement is the asynq handler for task.TypeSettleDelivery.
func (c *LedgerUseCase) HandleSettlement(ctx context.Context, t *asynq.Task) error {
	payload, err := task.ParseSettlementTask(t)
	if err != nil {
		c.Log.Error("ledger-usecase", err.Error(), "HandleSettlement", string(t.Payload()))
		return err
	}

	if err := c.SettleDelivery(ctx, payload.DeliveryID); err != nil {
		c.Log.Error("ledger-usecase", fmt.Sprintf("settlement failed: %v", err), "HandleSettlement", payload.DeliveryID)
		if errors.Is(err, ErrNotSettleable) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}

func optional(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
