package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/repository"
	"delivery-service/src/pkg/geo"
	"delivery-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

// memDB backs the in-memory stores. One mutex covers everything, which gives
// the ledger the same per-driver serialization the SQL row lock provides.
type memDB struct {
	mu         sync.Mutex
	deliveries map[string]entity.DeliveryRequest
	drivers    map[string]entity.Driver
	users      map[string]entity.User
	txs        []entity.PointTransaction

	staleUpdates bool
	appendErr    error
}

func newMemDB() *memDB {
	return &memDB{
		deliveries: map[string]entity.DeliveryRequest{},
		drivers:    map[string]entity.Driver{},
		users:      map[string]entity.User{},
	}
}

func (db *memDB) putDriver(d entity.Driver) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.drivers[d.ID] = d
}

func (db *memDB) putDelivery(d entity.DeliveryRequest) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.deliveries[d.ID] = d
}

func (db *memDB) driver(id string) entity.Driver {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.drivers[id]
}

func (db *memDB) delivery(id string) entity.DeliveryRequest {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.deliveries[id]
}

func (db *memDB) ledgerSum(driverID string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	var sum int64
	for _, tx := range db.txs {
		if tx.DriverID == driverID {
			sum += tx.Amount
		}
	}
	return sum
}

func (db *memDB) deductions(deliveryID string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, tx := range db.txs {
		if tx.TransactionType == entity.TransactionDeliveryDeduction && tx.DeliveryID.String == deliveryID {
			n++
		}
	}
	return n
}

type memDeliveries struct{ db *memDB }

func (s memDeliveries) Create(ctx context.Context, d *entity.DeliveryRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.deliveries[d.ID]; ok {
		return repository.ErrAlreadyExists
	}
	s.db.deliveries[d.ID] = *d
	return nil
}

func (s memDeliveries) FindByID(ctx context.Context, id string) (*entity.DeliveryRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.deliveries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (s memDeliveries) UpdateStatus(ctx context.Context, id string, from, to entity.DeliveryStatus, driverID *string, at time.Time) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.deliveries[id]
	if !ok || d.Status != from || s.db.staleUpdates {
		return false, nil
	}
	d.Status = to
	d.UpdatedAt = at
	if driverID != nil {
		d.DriverID.String, d.DriverID.Valid = *driverID, true
	}
	s.db.deliveries[id] = d
	return true, nil
}

func (s memDeliveries) List(ctx context.Context, filter entity.DeliveryFilter) ([]entity.DeliveryRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []entity.DeliveryRequest
	for _, d := range s.db.deliveries {
		if filter.UserID != nil && d.UserID != *filter.UserID {
			continue
		}
		if filter.DriverID != nil && d.DriverID.String != *filter.DriverID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, d.Status) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func containsStatus(list []entity.DeliveryStatus, s entity.DeliveryStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type memDrivers struct{ db *memDB }

func (s memDrivers) Create(ctx context.Context, d *entity.Driver) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.drivers {
		if existing.UserID == d.UserID {
			return repository.ErrAlreadyExists
		}
	}
	s.db.drivers[d.ID] = *d
	return nil
}

func (s memDrivers) FindByID(ctx context.Context, id string) (*entity.Driver, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (s memDrivers) FindByUserID(ctx context.Context, userID string) (*entity.Driver, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, d := range s.db.drivers {
		if d.UserID == userID {
			found := d
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memDrivers) List(ctx context.Context, limit int) ([]entity.Driver, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]entity.Driver, 0, len(s.db.drivers))
	for _, d := range s.db.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memDrivers) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.IsActive = active
	d.UpdatedAt = at
	s.db.drivers[id] = d
	return nil
}

func (s memDrivers) UpdateAvailability(ctx context.Context, userID string, available bool, lat, lng *float64, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, d := range s.db.drivers {
		if d.UserID != userID {
			continue
		}
		d.IsAvailable = available
		if lat != nil && lng != nil {
			d.CurrentLatitude.Float64, d.CurrentLatitude.Valid = *lat, true
			d.CurrentLongitude.Float64, d.CurrentLongitude.Valid = *lng, true
		}
		d.UpdatedAt = at
		s.db.drivers[id] = d
		return nil
	}
	return repository.ErrNotFound
}

type memLedger struct{ db *memDB }

func (s memLedger) Append(ctx context.Context, tx *entity.PointTransaction) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.appendErr != nil {
		return 0, s.db.appendErr
	}
	d, ok := s.db.drivers[tx.DriverID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if tx.TransactionType == entity.TransactionDeliveryDeduction && tx.DeliveryID.Valid {
		for _, existing := range s.db.txs {
			if existing.TransactionType == entity.TransactionDeliveryDeduction && existing.DeliveryID.String == tx.DeliveryID.String {
				return 0, repository.ErrDuplicateDeduction
			}
		}
	}
	s.db.txs = append(s.db.txs, *tx)
	d.Points += tx.Amount
	s.db.drivers[d.ID] = d
	return d.Points, nil
}

func (s memLedger) Balance(ctx context.Context, driverID string) (int64, error) {
	return s.db.ledgerSum(driverID), nil
}

func (s memLedger) ListByDriver(ctx context.Context, driverID string, limit int) ([]entity.PointTransaction, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []entity.PointTransaction
	for i := len(s.db.txs) - 1; i >= 0; i-- {
		if s.db.txs[i].DriverID == driverID {
			out = append(out, s.db.txs[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(ctx context.Context, u *entity.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[u.ID]; ok {
		return repository.ErrAlreadyExists
	}
	s.db.users[u.ID] = *u
	return nil
}

func (s memUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s memUsers) Update(ctx context.Context, u *entity.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	s.db.users[u.ID] = *u
	return nil
}

// stubProvider answers every routed lookup with meters or err and counts calls.
type stubProvider struct {
	mu     sync.Mutex
	meters int
	err    error
	calls  int
}

func (p *stubProvider) RouteDistance(ctx context.Context, origin, destination geo.Coordinate) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.meters, p.err
}

func (p *stubProvider) set(meters int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.meters, p.err = meters, err
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

var errProviderDown = errors.New("provider unavailable")

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	var sc interface{ StatusCode() int }
	require.True(t, errors.As(err, &sc), "error %v carries no status code", err)
	return sc.StatusCode()
}

func quietLog() log.Log {
	return log.Discard()
}

func newValidate() *validator.Validate {
	return validator.New()
}
