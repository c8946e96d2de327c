package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const deliveryColumns = `
	id,
	user_id,
	driver_id,
	pickup_latitude,
	pickup_longitude,
	pickup_address,
	delivery_latitude,
	delivery_longitude,
	delivery_address,
	status,
	distance_km,
	distance_source,
	points_cost,
	created_at,
	updated_at`

const defaultListLimit = 50

type DeliveryRepository struct {
	DB mysql.DBInterface
}

func NewDeliveryRepository(db mysql.DBInterface) *DeliveryRepository {
	return &DeliveryRepository{
		DB: db,
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, delivery *entity.DeliveryRequest) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO delivery_requests (` + deliveryColumns + `)
		VALUES (
			:id, :user_id, :driver_id,
			:pickup_latitude, :pickup_longitude, :pickup_address,
			:delivery_latitude, :delivery_longitude, :delivery_address,
			:status, :distance_km, :distance_source, :points_cost,
			:created_at, :updated_at
		)`

	if _, err = db.NamedExecContext(ctx, query, delivery); err != nil {
		if isDuplicateEntry(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*entity.DeliveryRequest, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var delivery entity.DeliveryRequest
	query := `SELECT ` + deliveryColumns + ` FROM delivery_requests WHERE id = ?`

	err = db.GetContext(ctx, &delivery, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &delivery, nil
}

// UpdateStatus moves a delivery from one status to the next only while the
// stored status still equals from. A false result means another writer got
// there first. driverID, when set, is assigned in the same statement.
// The distance and cost columns are never part of this update.
func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id string, from, to entity.DeliveryStatus, driverID *string, at time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	var res sql.Result
	if driverID != nil {
		query := `UPDATE delivery_requests SET status = ?, driver_id = ?, updated_at = ? WHERE id = ? AND status = ?`
		res, err = db.ExecContext(ctx, query, string(to), *driverID, at, id, string(from))
	} else {
		query := `UPDATE delivery_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
		res, err = db.ExecContext(ctx, query, string(to), at, id, string(from))
	}
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *DeliveryRepository) List(ctx context.Context, filter entity.DeliveryFilter) ([]entity.DeliveryRequest, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.DriverID != nil {
		where = append(where, "driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, "status IN (?)")
		args = append(args, statuses)
	}

	query := `SELECT ` + deliveryColumns + ` FROM delivery_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ?`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	deliveries := []entity.DeliveryRequest{}
	if err = db.SelectContext(ctx, &deliveries, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return deliveries, nil
}
