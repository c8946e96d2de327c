package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"delivery-service/src/internal/entity"
	"delivery-service/src/pkg/databases/mysql"
)

const driverColumns = `
	id,
	user_id,
	name,
	phone,
	email,
	vehicle_type,
	license_number,
	points,
	is_available,
	is_active,
	current_latitude,
	current_longitude,
	created_at,
	updated_at`

type DriverRepository struct {
	DB mysql.DBInterface
}

func NewDriverRepository(db mysql.DBInterface) *DriverRepository {
	return &DriverRepository{
		DB: db,
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver *entity.Driver) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES (
			:id, :user_id, :name, :phone, :email, :vehicle_type, :license_number,
			:points, :is_available, :is_active, :current_latitude, :current_longitude,
			:created_at, :updated_at
		)`

	if _, err = db.NamedExecContext(ctx, query, driver); err != nil {
		if isDuplicateEntry(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *DriverRepository) FindByID(ctx context.Context, id string) (*entity.Driver, error) {
	return r.findOne(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = ?`, id)
}

func (r *DriverRepository) FindByUserID(ctx context.Context, userID string) (*entity.Driver, error) {
	return r.findOne(ctx, `SELECT `+driverColumns+` FROM drivers WHERE user_id = ?`, userID)
}

func (r *DriverRepository) findOne(ctx context.Context, query string, arg string) (*entity.Driver, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var driver entity.Driver
	err = db.GetContext(ctx, &driver, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepository) List(ctx context.Context, limit int) ([]entity.Driver, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	drivers := []entity.Driver{}
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC LIMIT ?`
	if err = db.SelectContext(ctx, &drivers, query, limit); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *DriverRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `UPDATE drivers SET is_active = ?, updated_at = ? WHERE id = ?`, active, at, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// UpdateAvailability changes the availability flag and, when both are given,
// the last reported position of the driver owned by userID.
func (r *DriverRepository) UpdateAvailability(ctx context.Context, userID string, available bool, lat, lng *float64, at time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	var res sql.Result
	if lat != nil && lng != nil {
		query := `UPDATE drivers SET is_available = ?, current_latitude = ?, current_longitude = ?, updated_at = ? WHERE user_id = ?`
		res, err = db.ExecContext(ctx, query, available, *lat, *lng, at, userID)
	} else {
		query := `UPDATE drivers SET is_available = ?, updated_at = ? WHERE user_id = ?`
		res, err = db.ExecContext(ctx, query, available, at, userID)
	}
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
