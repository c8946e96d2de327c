package config

import (
	"delivery-service/src/internal/entity"
	"delivery-service/src/pkg/databases/mysql"
	"delivery-service/src/pkg/log"

	"github.com/spf13/viper"
)

// NewDatabase opens the sqlx pool and, when database.migrate is set, brings
// the schema up to date with the entity models first.
func NewDatabase(viper *viper.Viper, log log.Log) (mysql.DBInterface, error) {
	if viper.GetBool("database.migrate") {
		if err := mysql.AutoMigrate(viper, log, entity.Models()...); err != nil {
			log.Error("database init", err.Error(), "AutoMigrate", "")
			return nil, err
		}
	}

	db, err := mysql.InitConnection(viper, log)
	if err != nil {
		log.Error("database init", err.Error(), "config", "")
		return nil, err
	}

	return db, nil
}
