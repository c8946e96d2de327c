package config

import (
	"context"
	"time"

	redisModule "delivery-service/src/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func NewRedisConfig(viper *viper.Viper) redisModule.Config {
	return redisModule.Config{
		UseCluster:      viper.GetBool("redis.use_cluster"),
		EnableTLS:       viper.GetBool("redis.tls"),
		Host:            viper.GetString("redis.host"),
		Port:            viper.GetString("redis.port"),
		Password:        viper.GetString("redis.password"),
		DB:              viper.GetInt("redis.db"),
		ClusterNodes:    viper.GetString("redis.cluster.node"),
		ClusterUsername: viper.GetString("redis.cluster.username"),
		ClusterPassword: viper.GetString("redis.cluster.password"),
	}
}

// NewRedis returns nil when redis.enabled is false. The route cache is the
// only consumer that tolerates that.
func NewRedis(viper *viper.Viper) (redis.UniversalClient, error) {
	if !viper.GetBool("redis.enabled") {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return redisModule.NewClient(ctx, NewRedisConfig(viper))
}
