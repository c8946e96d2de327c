package repository

import (
	"context"
	"database/sql"
	"errors"

	"delivery-service/src/internal/entity"
	"delivery-service/src/pkg/databases/mysql"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, name, email, phone, created_at, updated_at)
		VALUES (:id, :name, :email, :phone, :created_at, :updated_at)`
	if _, err = db.NamedExecContext(ctx, query, user); err != nil {
		if isDuplicateEntry(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `SELECT id, name, email, phone, created_at, updated_at FROM users WHERE id = ?`
	err = db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.NamedExecContext(ctx, `UPDATE users SET name = :name, phone = :phone, updated_at = :updated_at WHERE id = :id`, user)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
