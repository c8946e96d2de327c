package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/gateway/task"
	"delivery-service/src/internal/model"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPointsPublisher struct {
	mock.Mock
}

func (m *mockPointsPublisher) SendPointsEvent(event *model.PointsEvent) error {
	return m.Called(event).Error(0)
}

func credit(f *deliveryFixture, driverID string, amount int64) error {
	return f.ledger.Credit(context.Background(), &model.CreditRequest{DriverID: driverID, Amount: amount, Notes: "top up"}).Error
}

func debit(f *deliveryFixture, driverID string, amount int64) error {
	return f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driverID, Amount: amount, Notes: "adjustment"}).Error
}

func TestCredit_RejectsNonPositiveAmount(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 0, true)

	for _, amount := range []int64{0, -5} {
		assert.Equal(t, http.StatusBadRequest, statusOf(t, credit(f, driver.ID, amount)))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, debit(f, driver.ID, amount)))
	}
	assert.Zero(t, f.db.ledgerSum(driver.ID))
}

func TestCredit_UnknownDriver(t *testing.T) {
	f := newDeliveryFixture(t)

	assert.Equal(t, http.StatusNotFound, statusOf(t, credit(f, uuid.NewString(), 10)))
	assert.Equal(t, http.StatusNotFound, statusOf(t, debit(f, uuid.NewString(), 10)))
}

func TestCredit_DefaultsToAdminAdd(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 0, true)

	res := f.ledger.Credit(context.Background(), &model.CreditRequest{DriverID: driver.ID, Amount: 25})
	require.NoError(t, res.Error)

	entry := res.Data.(*model.LedgerEntryResponse)
	assert.Equal(t, entity.TransactionAdminAdd, entry.Transaction.TransactionType)
	assert.Equal(t, int64(25), entry.Transaction.Amount)
	assert.Equal(t, int64(25), entry.Balance)
}

func TestDebit_StoresNegatedAmount(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 10, true)

	res := f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driver.ID, Amount: 4})
	require.NoError(t, res.Error)

	entry := res.Data.(*model.LedgerEntryResponse)
	assert.Equal(t, int64(-4), entry.Transaction.Amount)
	assert.Equal(t, entity.TransactionSystem, entry.Transaction.TransactionType)
	assert.Nil(t, entry.Transaction.DeliveryID)
	assert.Equal(t, int64(6), entry.Balance)
}

func TestDebit_LinkedDelivery(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)
	delivered := f.seedDelivery(entity.StatusDelivered, driver.ID)

	res := f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driver.ID, Amount: 30, DeliveryID: delivered.ID})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, res.Error))

	res = f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driver.ID, Amount: 35, DeliveryID: uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, statusOf(t, res.Error))

	res = f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driver.ID, Amount: 35, DeliveryID: delivered.ID})
	require.NoError(t, res.Error)
	entry := res.Data.(*model.LedgerEntryResponse)
	assert.Equal(t, entity.TransactionDeliveryDeduction, entry.Transaction.TransactionType)
	require.NotNil(t, entry.Transaction.DeliveryID)
	assert.Equal(t, delivered.ID, *entry.Transaction.DeliveryID)

	res = f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driver.ID, Amount: 35, DeliveryID: delivered.ID})
	assert.Equal(t, http.StatusConflict, statusOf(t, res.Error))
	assert.Equal(t, int64(65), f.db.driver(driver.ID).Points)
}

func TestDebit_LinkedDeliveryMustBeDeliveredByThatDriver(t *testing.T) {
	f := newDeliveryFixture(t)
	other := f.addDriver(t, 100, true)
	assigned := f.addDriver(t, 100, true)

	pending := f.seedDelivery(entity.StatusPending, "")
	accepted := f.seedDelivery(entity.StatusAccepted, assigned.ID)
	cancelled := f.seedDelivery(entity.StatusCancelled, "")
	delivered := f.seedDelivery(entity.StatusDelivered, assigned.ID)

	cases := []struct {
		name       string
		driverID   string
		deliveryID string
		want       int
	}{
		{"pending", other.ID, pending.ID, http.StatusConflict},
		{"accepted by the same driver", assigned.ID, accepted.ID, http.StatusConflict},
		{"accepted by another driver", other.ID, accepted.ID, http.StatusConflict},
		{"cancelled", other.ID, cancelled.ID, http.StatusConflict},
		{"delivered by another driver", other.ID, delivered.ID, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: tc.driverID, Amount: 35, DeliveryID: tc.deliveryID})
			assert.Equal(t, tc.want, statusOf(t, res.Error))
		})
	}

	assert.Equal(t, int64(100), f.db.driver(other.ID).Points)
	assert.Equal(t, int64(100), f.db.driver(assigned.ID).Points)
	assert.Zero(t, f.db.deductions(pending.ID))
	assert.Zero(t, f.db.deductions(accepted.ID))
}

func TestDebit_EarlyLinkedDebitCannotBlockSettlement(t *testing.T) {
	f := newDeliveryFixture(t)
	bystander := f.addDriver(t, 100, true)
	driver := f.addDriver(t, 100, true)
	created := f.create(t, "user-1")

	res := f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: bystander.ID, Amount: created.PointsCost, DeliveryID: created.ID})
	assert.Equal(t, http.StatusConflict, statusOf(t, res.Error))

	for _, to := range []entity.DeliveryStatus{entity.StatusAccepted, entity.StatusPickedUp, entity.StatusDelivered} {
		_, err := f.transition(driverAuth(driver), created.ID, to, "")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.db.deductions(created.ID))
	assert.Equal(t, int64(100)-created.PointsCost, f.db.driver(driver.ID).Points)
	assert.Equal(t, int64(100), f.db.driver(bystander.ID).Points)
}

func TestLedger_BalanceEqualsSumAfterMixedOperations(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 0, true)

	ops := []struct {
		credit bool
		amount int64
	}{
		{true, 50}, {false, 12}, {true, 3}, {false, 41}, {false, 7}, {true, 100},
	}
	var want int64
	for _, op := range ops {
		if op.credit {
			require.NoError(t, credit(f, driver.ID, op.amount))
			want += op.amount
		} else {
			require.NoError(t, debit(f, driver.ID, op.amount))
			want -= op.amount
		}
	}

	res := f.ledger.Balance(context.Background(), &model.BalanceRequest{DriverID: driver.ID})
	require.NoError(t, res.Error)
	balance := res.Data.(model.BalanceResponse)
	assert.Equal(t, want, balance.Balance)
	assert.Len(t, balance.Transactions, len(ops))

	audit := f.ledger.Audit(context.Background(), &model.BalanceRequest{DriverID: driver.ID})
	require.NoError(t, audit.Error)
	report := audit.Data.(model.LedgerAuditResponse)
	assert.True(t, report.Consistent)
	assert.Equal(t, want, report.CachedPoints)
	assert.Equal(t, want, report.LedgerSum)
}

func TestLedger_BalanceWithoutTransactionsIsZero(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 0, true)

	res := f.ledger.DriverBalance(context.Background(), driverAuth(driver))
	require.NoError(t, res.Error)
	assert.Zero(t, res.Data.(model.BalanceResponse).Balance)

	res = f.ledger.Balance(context.Background(), &model.BalanceRequest{DriverID: uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, statusOf(t, res.Error))
}

func TestLedger_ConcurrentDebitsOnOneDriver(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, debit(f, driver.ID, 2))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), f.db.ledgerSum(driver.ID))
	assert.Equal(t, int64(20), f.db.driver(driver.ID).Points)
}

func TestLedger_PersistenceFailureLeavesNothingBehind(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 10, true)
	f.db.appendErr = errors.New("connection reset")

	assert.Equal(t, http.StatusInternalServerError, statusOf(t, credit(f, driver.ID, 5)))
	assert.Equal(t, int64(10), f.db.ledgerSum(driver.ID))
	assert.Equal(t, int64(10), f.db.driver(driver.ID).Points)
}

func TestLedger_PublishesPointsEvent(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 0, true)

	publisher := &mockPointsPublisher{}
	publisher.On("SendPointsEvent", mock.MatchedBy(func(e *model.PointsEvent) bool {
		return e.DriverID == driver.ID && e.Amount == 9 && e.Balance == 9
	})).Return(errors.New("broker down")).Once()
	f.ledger.Producer = publisher

	require.NoError(t, credit(f, driver.ID, 9))
	publisher.AssertExpectations(t)
}

func TestHandleSettlement(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)
	delivered := f.seedDelivery(entity.StatusDelivered, driver.ID)
	pending := f.seedDelivery(entity.StatusPending, "")

	settle, err := task.NewSettlementTask(delivered.ID)
	require.NoError(t, err)
	require.NoError(t, f.ledger.HandleSettlement(context.Background(), settle))
	require.NoError(t, f.ledger.HandleSettlement(context.Background(), settle))
	assert.Equal(t, 1, f.db.deductions(delivered.ID))
	assert.Equal(t, int64(65), f.db.driver(driver.ID).Points)

	early, err := task.NewSettlementTask(pending.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.ledger.HandleSettlement(context.Background(), early), asynq.SkipRetry)

	missing, err := task.NewSettlementTask(uuid.NewString())
	require.NoError(t, err)
	assert.ErrorIs(t, f.ledger.HandleSettlement(context.Background(), missing), asynq.SkipRetry)

	broken := asynq.NewTask(task.TypeSettleDelivery, []byte("not json"))
	assert.ErrorIs(t, f.ledger.HandleSettlement(context.Background(), broken), asynq.SkipRetry)
}

func TestHandleSettlement_TransientFailureIsRetried(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)
	delivered := f.seedDelivery(entity.StatusDelivered, driver.ID)
	f.db.appendErr = errors.New("deadlock found")

	settle, err := task.NewSettlementTask(delivered.ID)
	require.NoError(t, err)
	err = f.ledger.HandleSettlement(context.Background(), settle)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
