package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// NewViper reads config.yaml from the working directory, ./config or
// /etc/delivery-service and lets environment variables override any key,
// e.g. DATABASE_HOST for database.host.
// A .env file is loaded first when present.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	config := viper.New()
	config.SetConfigName("config")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")
	config.AddConfigPath("./config")
	config.AddConfigPath("/etc/delivery-service")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	setDefaults(config)
	return config
}

func setDefaults(config *viper.Viper) {
	config.SetDefault("app.name", "DELIVERY_SERVICE")
	config.SetDefault("log.level", "INFO")
	config.SetDefault("web.port", 8080)
	config.SetDefault("web.prefork", false)
	config.SetDefault("database.port", 3306)
	config.SetDefault("database.migrate", false)
	config.SetDefault("routing.provider", "none")
	config.SetDefault("routing.timeout", "3s")
	config.SetDefault("routing.cache.enabled", false)
	config.SetDefault("routing.cache.ttl", "24h")
	config.SetDefault("thirdparty.osrm.endpoint", "https://router.project-osrm.org")
	config.SetDefault("kafka.producer.enabled", false)
	config.SetDefault("redis.enabled", false)
	config.SetDefault("redis.host", "127.0.0.1")
	config.SetDefault("redis.port", 6379)
	config.SetDefault("asynq.enabled", false)
	config.SetDefault("asynq.concurrency", 10)
}
