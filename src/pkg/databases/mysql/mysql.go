package mysql

import (
	"errors"
	"fmt"
	"time"

	"delivery-service/src/pkg/log"

	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	Close() error
}

type Connection struct {
	db *sqlx.DB
}

// NewConnection wraps an already opened handle, used by tests with sqlmock.
func NewConnection(db *sqlx.DB) *Connection {
	return &Connection{db: db}
}

func (c *Connection) GetDB() (*sqlx.DB, error) {
	if c == nil || c.db == nil {
		return nil, errors.New("mysql connection is not initialized")
	}
	return c.db, nil
}

func (c *Connection) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func DSN(v *viper.Viper) string {
	cfg := driver.NewConfig()
	cfg.User = v.GetString("database.user")
	cfg.Passwd = v.GetString("database.password")
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", v.GetString("database.host"), v.GetInt("database.port"))
	cfg.DBName = v.GetString("database.name")
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	// conditional updates count matched rows, not changed rows
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	db, err := sqlx.Connect("mysql", DSN(v))
	if err != nil {
		return nil, err
	}

	idle := v.GetInt("database.pool.idle")
	if idle == 0 {
		idle = 10
	}
	maxOpen := v.GetInt("database.pool.max")
	if maxOpen == 0 {
		maxOpen = 50
	}
	lifetime := v.GetDuration("database.pool.lifetime")
	if lifetime == 0 {
		lifetime = 5 * time.Minute
	}
	db.SetMaxIdleConns(idle)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)

	logger.Info("mysql", "connected to database", "InitConnection", v.GetString("database.name"))
	return &Connection{db: db}, nil
}

// AutoMigrate creates or alters tables for the given gorm-tagged models.
func AutoMigrate(v *viper.Viper, logger log.Log, models ...interface{}) error {
	gdb, err := gorm.Open(gormMysql.Open(DSN(v)), &gorm.Config{})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := gdb.AutoMigrate(models...); err != nil {
		return err
	}
	logger.Info("mysql", "schema migrated", "AutoMigrate", fmt.Sprintf("%d models", len(models)))
	return nil
}
