package repository

import (
	"context"
	"database/sql"
	"errors"

	"delivery-service/src/internal/entity"
	"delivery-service/src/pkg/databases/mysql"
)

const transactionColumns = `
	id,
	driver_id,
	amount,
	transaction_type,
	delivery_id,
	notes,
	created_at`

// LedgerRepository owns point_transactions and the drivers.points cache.
// Rows are only ever inserted.
type LedgerRepository struct {
	DB mysql.DBInterface
}

func NewLedgerRepository(db mysql.DBInterface) *LedgerRepository {
	return &LedgerRepository{
		DB: db,
	}
}

// Append inserts the transaction and moves the driver's cached points by the
// same amount in one SQL transaction, returning the new cached balance. The
// driver row is locked first so appends for one driver are serialized and a
// delivery deduction can be checked for duplicates without racing.
func (r *LedgerRepository) Append(ctx context.Context, pt *entity.PointTransaction) (balance int64, err error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var cached int64
	err = tx.GetContext(ctx, &cached, `SELECT points FROM drivers WHERE id = ? FOR UPDATE`, pt.DriverID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	if pt.TransactionType == entity.TransactionDeliveryDeduction && pt.DeliveryID.Valid {
		var settled int
		query := `SELECT COUNT(*) FROM point_transactions WHERE delivery_id = ? AND transaction_type = ?`
		if err = tx.GetContext(ctx, &settled, query, pt.DeliveryID.String, string(entity.TransactionDeliveryDeduction)); err != nil {
			return 0, err
		}
		if settled > 0 {
			err = ErrDuplicateDeduction
			return 0, err
		}
	}

	insert := `
		INSERT INTO point_transactions (` + transactionColumns + `)
		VALUES (:id, :driver_id, :amount, :transaction_type, :delivery_id, :notes, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insert, pt); err != nil {
		if isDuplicateEntry(err) {
			err = ErrDuplicateDeduction
		}
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE drivers SET points = points + ?, updated_at = ? WHERE id = ?`, pt.Amount, pt.CreatedAt, pt.DriverID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return cached + pt.Amount, nil
}

// Balance sums the ledger itself, ignoring the cached column.
func (r *LedgerRepository) Balance(ctx context.Context, driverID string) (int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	var sum int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM point_transactions WHERE driver_id = ?`
	if err = db.GetContext(ctx, &sum, query, driverID); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *LedgerRepository) ListByDriver(ctx context.Context, driverID string, limit int) ([]entity.PointTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	txs := []entity.PointTransaction{}
	query := `SELECT ` + transactionColumns + ` FROM point_transactions WHERE driver_id = ? ORDER BY created_at DESC LIMIT ?`
	if err = db.SelectContext(ctx, &txs, query, driverID, limit); err != nil {
		return nil, err
	}
	return txs, nil
}
