package config

import (
	"context"

	"delivery-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

func NewAsynqRedisOpt(viper *viper.Viper) asynq.RedisConnOpt {
	cfg := NewRedisConfig(viper)
	if cfg.UseCluster {
		return asynq.RedisClusterClientOpt{
			Addrs:     cfg.Nodes(),
			Username:  cfg.ClusterUsername,
			Password:  cfg.ClusterPassword,
			TLSConfig: cfg.TLS(),
		}
	}
	return asynq.RedisClientOpt{
		Addr:      cfg.Addr(),
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: cfg.TLS(),
	}
}

func NewAsynqClient(viper *viper.Viper) *asynq.Client {
	return asynq.NewClient(NewAsynqRedisOpt(viper))
}

func NewAsynqServer(viper *viper.Viper, logger log.Log) *asynq.Server {
	return asynq.NewServer(NewAsynqRedisOpt(viper), asynq.Config{
		Concurrency: viper.GetInt("asynq.concurrency"),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("asynq", err.Error(), task.Type(), string(task.Payload()))
		}),
	})
}
