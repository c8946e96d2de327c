package entity

import (
	"database/sql"
	"time"
)

type TransactionType string

const (
	TransactionAdminAdd          TransactionType = "admin_add"
	TransactionDeliveryDeduction TransactionType = "delivery_deduction"
	TransactionSystem            TransactionType = "system"
)

// PointTransaction is an immutable ledger row. Amount is signed: credits are
// positive, debits negative, never zero. A delivery has at most one row per
// transaction type; rows without a delivery are not constrained.
type PointTransaction struct {
	ID              string          `db:"id" gorm:"column:id;type:char(36);primaryKey"`
	DriverID        string          `db:"driver_id" gorm:"column:driver_id;type:char(36);not null;index:idx_point_tx_driver_created,priority:1"`
	Amount          int64           `db:"amount" gorm:"column:amount;not null"`
	TransactionType TransactionType `db:"transaction_type" gorm:"column:transaction_type;type:varchar(32);not null;uniqueIndex:uq_point_tx_delivery_type,priority:2"`
	DeliveryID      sql.NullString  `db:"delivery_id" gorm:"column:delivery_id;type:char(36);uniqueIndex:uq_point_tx_delivery_type,priority:1"`
	Notes           sql.NullString  `db:"notes" gorm:"column:notes;type:varchar(512)"`
	CreatedAt       time.Time       `db:"created_at" gorm:"column:created_at;not null;index:idx_point_tx_driver_created,priority:2"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}
