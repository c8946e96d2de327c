package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID        string         `db:"id" gorm:"column:id;type:varchar(64);primaryKey"`
	Name      string         `db:"name" gorm:"column:name;type:varchar(128);not null"`
	Email     string         `db:"email" gorm:"column:email;type:varchar(128);not null"`
	Phone     sql.NullString `db:"phone" gorm:"column:phone;type:varchar(32)"`
	CreatedAt time.Time      `db:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt time.Time      `db:"updated_at" gorm:"column:updated_at;not null"`
}

func (User) TableName() string {
	return "users"
}

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{&User{}, &Driver{}, &DeliveryRequest{}, &PointTransaction{}}
}
