package entity

import (
	"database/sql"
	"time"
)

type VehicleType string

const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTuktuk     VehicleType = "tuktuk"
)

// Driver.Points caches the sum of the driver's point transactions. Only the
// ledger repository writes it, inside the same SQL transaction as the append.
type Driver struct {
	ID               string          `db:"id" gorm:"column:id;type:char(36);primaryKey"`
	UserID           string          `db:"user_id" gorm:"column:user_id;type:varchar(64);not null;uniqueIndex"`
	Name             string          `db:"name" gorm:"column:name;type:varchar(128);not null"`
	Phone            string          `db:"phone" gorm:"column:phone;type:varchar(32);not null"`
	Email            sql.NullString  `db:"email" gorm:"column:email;type:varchar(128)"`
	VehicleType      VehicleType     `db:"vehicle_type" gorm:"column:vehicle_type;type:varchar(16);not null"`
	LicenseNumber    string          `db:"license_number" gorm:"column:license_number;type:varchar(64);not null"`
	Points           int64           `db:"points" gorm:"column:points;not null;default:0"`
	IsAvailable      bool            `db:"is_available" gorm:"column:is_available;not null;default:false"`
	IsActive         bool            `db:"is_active" gorm:"column:is_active;not null;default:false"`
	CurrentLatitude  sql.NullFloat64 `db:"current_latitude" gorm:"column:current_latitude"`
	CurrentLongitude sql.NullFloat64 `db:"current_longitude" gorm:"column:current_longitude"`
	CreatedAt        time.Time       `db:"created_at" gorm:"column:created_at;not null;index"`
	UpdatedAt        time.Time       `db:"updated_at" gorm:"column:updated_at;not null"`
}

func (Driver) TableName() string {
	return "drivers"
}
