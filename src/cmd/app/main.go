package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"delivery-service/src/internal/config"
	"delivery-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

func main() {
	viperConfig := config.NewViper()
	log.InitLogger(viperConfig)
	logger := log.GetLogger()

	db, err := config.NewDatabase(viperConfig, logger)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to connect database: %v", err), "main", "")
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := config.NewRedis(viperConfig)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to connect redis: %v", err), "main", "")
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := config.NewKafkaProducer(viperConfig, logger)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to create kafka producer: %v", err), "main", "")
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
	}

	provider, err := config.NewRoutingProvider(viperConfig, redisClient, logger)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to create routing provider: %v", err), "main", "")
		os.Exit(1)
	}

	var (
		asynqClient *asynq.Client
		asynqServer *asynq.Server
		mux         *asynq.ServeMux
	)
	if viperConfig.GetBool("asynq.enabled") {
		asynqClient = config.NewAsynqClient(viperConfig)
		defer asynqClient.Close()
		asynqServer = config.NewAsynqServer(viperConfig, logger)
		mux = asynq.NewServeMux()
	}

	app := config.NewFiber(viperConfig)
	config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    config.NewValidator(viperConfig),
		Config:      viperConfig,
		Producer:    producer,
		Resolver:    config.NewResolver(viperConfig, provider, logger),
		AsynqClient: asynqClient,
		Async:       mux,
	})

	if asynqServer != nil {
		if err := asynqServer.Start(mux); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start asynq server: %v", err), "main", "")
			os.Exit(1)
		}
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("main", "Server is shutting down...", "graceful", viperConfig.GetString("app.name"))

		if err := app.Shutdown(); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		if asynqServer != nil {
			asynqServer.Shutdown()
		}
		close(done)
	}()

	webPort := viperConfig.GetInt("web.port")
	if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
	}

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "graceful", "")
}
