package usecase

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/gateway/routing"
	"delivery-service/src/internal/gateway/task"
	"delivery-service/src/internal/model"
	"delivery-service/src/pkg/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDeliveryPublisher struct {
	mock.Mock
}

func (m *mockDeliveryPublisher) SendDeliveryEvent(event *model.DeliveryEvent) error {
	return m.Called(event).Error(0)
}

type deliveryFixture struct {
	db         *memDB
	provider   *stubProvider
	publisher  *mockDeliveryPublisher
	deliveries *DeliveryUseCase
	ledger     *LedgerUseCase
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	db := newMemDB()
	provider := &stubProvider{err: errProviderDown}
	resolver := routing.NewResolver(provider, time.Second, quietLog())

	ledger := NewLedgerUseCase(quietLog(), newValidate(), memLedger{db}, memDrivers{db}, memDeliveries{db}, nil)

	publisher := &mockDeliveryPublisher{}
	publisher.On("SendDeliveryEvent", mock.Anything).Return(nil)

	deliveries := NewDeliveryUseCase(
		quietLog(),
		newValidate(),
		memDeliveries{db},
		memDrivers{db},
		resolver,
		publisher,
		&task.InlineScheduler{Settle: ledger.SettleDelivery},
	)

	return &deliveryFixture{db: db, provider: provider, publisher: publisher, deliveries: deliveries, ledger: ledger}
}

func (f *deliveryFixture) addDriver(t *testing.T, points int64, active bool) entity.Driver {
	t.Helper()
	d := entity.Driver{
		ID:            uuid.NewString(),
		UserID:        "driver-account-" + uuid.NewString(),
		Name:          "Mahmoud",
		Phone:         "01000000000",
		VehicleType:   entity.VehicleMotorcycle,
		LicenseNumber: "LIC-1",
		IsActive:      active,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	f.db.putDriver(d)
	if points != 0 {
		_, err := memLedger{f.db}.Append(context.Background(), &entity.PointTransaction{
			ID:              uuid.NewString(),
			DriverID:        d.ID,
			Amount:          points,
			TransactionType: entity.TransactionAdminAdd,
			CreatedAt:       time.Now().UTC(),
		})
		require.NoError(t, err)
	}
	return f.db.driver(d.ID)
}

func (f *deliveryFixture) seedDelivery(status entity.DeliveryStatus, driverID string) entity.DeliveryRequest {
	d := entity.DeliveryRequest{
		ID:                uuid.NewString(),
		UserID:            "user-1",
		PickupLatitude:    30,
		PickupLongitude:   31,
		PickupAddress:     "Tahrir Square",
		DeliveryLatitude:  30.1,
		DeliveryLongitude: 31.1,
		DeliveryAddress:   "Maadi",
		Status:            status,
		DistanceKm:        14.7065,
		DistanceSource:    routing.SourceHaversine,
		PointsCost:        35,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if driverID != "" {
		d.DriverID = sql.NullString{String: driverID, Valid: true}
	}
	f.db.putDelivery(d)
	return d
}

func location(lat, lng float64, address string) model.LocationRequest {
	return model.LocationRequest{
		PointRequest: model.PointRequest{Latitude: lat, Longitude: lng},
		Address:      address,
	}
}

func (f *deliveryFixture) create(t *testing.T, userID string) *model.DeliveryResponse {
	t.Helper()
	res := f.deliveries.Create(context.Background(), &model.CreateDeliveryRequest{
		UserID:   userID,
		Pickup:   location(30.0, 31.0, "Tahrir Square"),
		Delivery: location(30.1, 31.1, "Maadi"),
	})
	require.NoError(t, res.Error)
	return res.Data.(*model.DeliveryResponse)
}

func (f *deliveryFixture) transition(auth *model.Auth, deliveryID string, to entity.DeliveryStatus, driverID string) (*model.DeliveryResponse, error) {
	res := f.deliveries.TransitionStatus(context.Background(), auth, &model.TransitionStatusRequest{
		DeliveryID: deliveryID,
		Status:     to,
		DriverID:   driverID,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	return res.Data.(*model.DeliveryResponse), nil
}

var (
	adminAuth = &model.Auth{UserID: "admin-1", Role: model.RoleAdmin}
	userAuth  = &model.Auth{UserID: "user-1", Role: model.RoleUser}
)

func driverAuth(d entity.Driver) *model.Auth {
	return &model.Auth{UserID: d.UserID, Role: model.RoleDriver}
}

func TestCreate_ProviderDownFallsBackToHaversine(t *testing.T) {
	f := newDeliveryFixture(t)

	got := f.create(t, "user-1")

	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Equal(t, routing.SourceHaversine, got.DistanceSource)
	assert.InDelta(t, 14.7065, got.DistanceKm, 0.01)
	assert.Equal(t, int64(35), got.PointsCost)
	assert.Nil(t, got.DriverID)

	stored := f.db.delivery(got.ID)
	assert.Equal(t, got.DistanceKm, stored.DistanceKm)
	assert.Equal(t, got.PointsCost, stored.PointsCost)

	f.publisher.AssertCalled(t, "SendDeliveryEvent", mock.MatchedBy(func(e *model.DeliveryEvent) bool {
		return e.Type == model.EventDeliveryCreated && e.DeliveryID == got.ID
	}))
}

func TestCreate_UsesRoutedDistance(t *testing.T) {
	f := newDeliveryFixture(t)
	f.provider.set(15200, nil)

	got := f.create(t, "user-1")

	assert.Equal(t, routing.SourceRouted, got.DistanceSource)
	assert.InDelta(t, 15.2, got.DistanceKm, 1e-9)
	assert.Equal(t, int64(36), got.PointsCost)
}

func TestCreate_RejectsOutOfRangeCoordinates(t *testing.T) {
	f := newDeliveryFixture(t)

	res := f.deliveries.Create(context.Background(), &model.CreateDeliveryRequest{
		UserID:   "user-1",
		Pickup:   location(91, 31, "nowhere"),
		Delivery: location(30.1, 31.1, "Maadi"),
	})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, res.Error))
	assert.Zero(t, f.provider.callCount())
}

func TestQuote_DoesNotPersist(t *testing.T) {
	f := newDeliveryFixture(t)

	res := f.deliveries.Quote(context.Background(), &model.QuoteRequest{
		Pickup:   model.PointRequest{Latitude: 30, Longitude: 31},
		Delivery: model.PointRequest{Latitude: 30, Longitude: 31},
	})
	require.NoError(t, res.Error)

	quote := res.Data.(model.QuoteResponse)
	assert.Zero(t, quote.DistanceKm)
	assert.Equal(t, int64(5), quote.PointsCost)

	list := f.deliveries.ListAll(context.Background())
	require.NoError(t, list.Error)
	assert.Empty(t, list.Data)
}

func TestTransition_NeverRecomputesDistanceOrCost(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)

	created := f.create(t, "user-1")
	require.Equal(t, 1, f.provider.callCount())

	// the provider recovers with a very different answer; nothing may change
	f.provider.set(90000, nil)

	for _, to := range []entity.DeliveryStatus{entity.StatusAccepted, entity.StatusPickedUp, entity.StatusDelivered} {
		got, err := f.transition(driverAuth(driver), created.ID, to, "")
		require.NoError(t, err)
		assert.Equal(t, to, got.Status)
		assert.Equal(t, created.DistanceKm, got.DistanceKm)
		assert.Equal(t, created.PointsCost, got.PointsCost)
	}

	stored := f.db.delivery(created.ID)
	assert.Equal(t, created.DistanceKm, stored.DistanceKm)
	assert.Equal(t, created.PointsCost, stored.PointsCost)
	assert.Equal(t, 1, f.provider.callCount())
}

func TestTransition_OnlyLegalEdgesSucceed(t *testing.T) {
	all := []entity.DeliveryStatus{
		entity.StatusPending,
		entity.StatusAccepted,
		entity.StatusPickedUp,
		entity.StatusDelivered,
		entity.StatusCancelled,
	}
	legal := map[[2]entity.DeliveryStatus]bool{
		{entity.StatusPending, entity.StatusAccepted}:   true,
		{entity.StatusAccepted, entity.StatusPickedUp}:  true,
		{entity.StatusPickedUp, entity.StatusDelivered}: true,
		{entity.StatusPending, entity.StatusCancelled}:  true,
		{entity.StatusAccepted, entity.StatusCancelled}: true,
		{entity.StatusPickedUp, entity.StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newDeliveryFixture(t)
				driver := f.addDriver(t, 100, true)

				assigned := driver.ID
				if from == entity.StatusPending {
					assigned = ""
				}
				seeded := f.seedDelivery(from, assigned)

				got, err := f.transition(adminAuth, seeded.ID, to, driver.ID)
				if legal[[2]entity.DeliveryStatus{from, to}] {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					assert.Equal(t, seeded.PointsCost, got.PointsCost)
					return
				}
				assert.Equal(t, http.StatusConflict, statusOf(t, err))
				assert.Equal(t, from, f.db.delivery(seeded.ID).Status)
			})
		}
	}
}

func TestAccept_AssignsDriver(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 40, true)
	seeded := f.seedDelivery(entity.StatusPending, "")

	got, err := f.transition(driverAuth(driver), seeded.ID, entity.StatusAccepted, "")
	require.NoError(t, err)
	require.NotNil(t, got.DriverID)
	assert.Equal(t, driver.ID, *got.DriverID)
	assert.Equal(t, driver.ID, f.db.delivery(seeded.ID).DriverID.String)
}

func TestAccept_RequiresActiveDriverWithEnoughPoints(t *testing.T) {
	f := newDeliveryFixture(t)
	inactive := f.addDriver(t, 100, false)
	poor := f.addDriver(t, 34, true)
	seeded := f.seedDelivery(entity.StatusPending, "")

	_, err := f.transition(driverAuth(inactive), seeded.ID, entity.StatusAccepted, "")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = f.transition(driverAuth(poor), seeded.ID, entity.StatusAccepted, "")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = f.transition(adminAuth, seeded.ID, entity.StatusAccepted, "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	assert.Equal(t, entity.StatusPending, f.db.delivery(seeded.ID).Status)
}

func TestTransition_DriverMustBeAssigned(t *testing.T) {
	f := newDeliveryFixture(t)
	owner := f.addDriver(t, 100, true)
	other := f.addDriver(t, 100, true)
	seeded := f.seedDelivery(entity.StatusAccepted, owner.ID)

	_, err := f.transition(driverAuth(other), seeded.ID, entity.StatusPickedUp, "")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	unregistered := &model.Auth{UserID: "nobody", Role: model.RoleDriver}
	_, err = f.transition(unregistered, seeded.ID, entity.StatusPickedUp, "")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = f.transition(driverAuth(owner), seeded.ID, entity.StatusPickedUp, "")
	assert.NoError(t, err)
}

func TestTransition_UserMayOnlyCancelOwnPending(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)

	mine := f.seedDelivery(entity.StatusPending, "")
	got, err := f.transition(userAuth, mine.ID, entity.StatusCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)

	accepted := f.seedDelivery(entity.StatusAccepted, driver.ID)
	_, err = f.transition(userAuth, accepted.ID, entity.StatusCancelled, "")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	stranger := &model.Auth{UserID: "user-2", Role: model.RoleUser}
	pending := f.seedDelivery(entity.StatusPending, "")
	_, err = f.transition(stranger, pending.ID, entity.StatusCancelled, "")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestTransition_ConcurrentChangeIsConflict(t *testing.T) {
	f := newDeliveryFixture(t)
	seeded := f.seedDelivery(entity.StatusPending, "")
	f.db.staleUpdates = true

	_, err := f.transition(adminAuth, seeded.ID, entity.StatusCancelled, "")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestTransition_UnknownDelivery(t *testing.T) {
	f := newDeliveryFixture(t)

	_, err := f.transition(adminAuth, uuid.NewString(), entity.StatusCancelled, "")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeliver_SettlesPointsCostExactlyOnce(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)
	seeded := f.seedDelivery(entity.StatusPickedUp, driver.ID)

	_, err := f.transition(driverAuth(driver), seeded.ID, entity.StatusDelivered, "")
	require.NoError(t, err)

	assert.Equal(t, int64(65), f.db.driver(driver.ID).Points)
	assert.Equal(t, 1, f.db.deductions(seeded.ID))

	// a redelivered settlement job is a no-op
	require.NoError(t, f.ledger.SettleDelivery(context.Background(), seeded.ID))
	assert.Equal(t, 1, f.db.deductions(seeded.ID))
	assert.Equal(t, f.db.ledgerSum(driver.ID), f.db.driver(driver.ID).Points)

	f.publisher.AssertCalled(t, "SendDeliveryEvent", mock.MatchedBy(func(e *model.DeliveryEvent) bool {
		return e.Type == model.EventDeliveryStatusChanged && e.From == entity.StatusPickedUp && e.To == entity.StatusDelivered
	}))
}

func TestDeliver_FailedSettlementWarnsAndCanBeRecovered(t *testing.T) {
	f := newDeliveryFixture(t)
	var buf bytes.Buffer
	f.deliveries.Log = log.New("test", "INFO", &buf)
	driver := f.addDriver(t, 100, true)
	seeded := f.seedDelivery(entity.StatusPickedUp, driver.ID)

	f.db.appendErr = errors.New("connection reset")
	got, err := f.transition(driverAuth(driver), seeded.ID, entity.StatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, got.Status)
	assert.Zero(t, f.db.deductions(seeded.ID))

	logged := buf.String()
	assert.Contains(t, logged, `"level":"warning"`)
	assert.Contains(t, logged, "/v1/admin/drivers/"+driver.ID+"/points/debit")
	assert.Contains(t, logged, seeded.ID)

	f.db.appendErr = nil
	res := f.ledger.Debit(context.Background(), &model.DebitRequest{DriverID: driver.ID, Amount: seeded.PointsCost, DeliveryID: seeded.ID})
	require.NoError(t, res.Error)
	assert.Equal(t, 1, f.db.deductions(seeded.ID))
	assert.Equal(t, int64(65), f.db.driver(driver.ID).Points)

	require.NoError(t, f.ledger.SettleDelivery(context.Background(), seeded.ID))
	assert.Equal(t, 1, f.db.deductions(seeded.ID))
}

func TestListForDriver_Scopes(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)
	f.seedDelivery(entity.StatusAccepted, driver.ID)
	f.seedDelivery(entity.StatusPickedUp, driver.ID)
	f.seedDelivery(entity.StatusDelivered, driver.ID)
	f.seedDelivery(entity.StatusPending, "")

	active := f.deliveries.ListForDriver(context.Background(), driverAuth(driver), &model.DriverDeliveriesRequest{})
	require.NoError(t, active.Error)
	assert.Len(t, active.Data, 2)

	past := f.deliveries.ListForDriver(context.Background(), driverAuth(driver), &model.DriverDeliveriesRequest{Scope: "past"})
	require.NoError(t, past.Error)
	assert.Len(t, past.Data, 1)

	pending := f.deliveries.ListPending(context.Background())
	require.NoError(t, pending.Error)
	assert.Len(t, pending.Data, 1)
}

func TestGet_VisibleToOwnerOnly(t *testing.T) {
	f := newDeliveryFixture(t)
	driver := f.addDriver(t, 100, true)
	seeded := f.seedDelivery(entity.StatusAccepted, driver.ID)
	request := &model.GetDeliveryRequest{DeliveryID: seeded.ID}

	assert.NoError(t, f.deliveries.Get(context.Background(), userAuth, request).Error)
	assert.NoError(t, f.deliveries.Get(context.Background(), driverAuth(driver), request).Error)
	assert.NoError(t, f.deliveries.Get(context.Background(), adminAuth, request).Error)

	stranger := &model.Auth{UserID: "user-2", Role: model.RoleUser}
	res := f.deliveries.Get(context.Background(), stranger, request)
	assert.Equal(t, http.StatusForbidden, statusOf(t, res.Error))
}
