package config

import (
	"delivery-service/src/internal/delivery/http"
	"delivery-service/src/internal/delivery/http/middleware"
	"delivery-service/src/internal/delivery/http/route"
	"delivery-service/src/internal/gateway/messaging"
	"delivery-service/src/internal/gateway/routing"
	"delivery-service/src/internal/gateway/task"
	"delivery-service/src/internal/repository"
	"delivery-service/src/internal/usecase"
	"delivery-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "delivery-service/src/pkg/kafka/confluent"
	"delivery-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB       mysql.DBInterface
	App      *fiber.App
	Log      log.Log
	Validate *validator.Validate
	Config   *viper.Viper
	Producer kafkaPkgConfluent.Producer
	Resolver *routing.Resolver
	// AsynqClient and Async are nil when settlement runs inline.
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	userRepository := repository.NewUserRepository(config.DB)
	driverRepository := repository.NewDriverRepository(config.DB)
	deliveryRepository := repository.NewDeliveryRepository(config.DB)
	ledgerRepository := repository.NewLedgerRepository(config.DB)

	// setup producers
	deliveryProducer := messaging.NewDeliveryProducer(config.Producer, config.Log)
	pointsProducer := messaging.NewPointsProducer(config.Producer, config.Log)

	// setup use cases
	userUseCase := usecase.NewUserUseCase(config.Log, config.Validate, userRepository)
	driverUseCase := usecase.NewDriverUseCase(config.Log, config.Validate, driverRepository)
	ledgerUseCase := usecase.NewLedgerUseCase(
		config.Log,
		config.Validate,
		ledgerRepository,
		driverRepository,
		deliveryRepository,
		pointsProducer,
	)

	var settlement usecase.SettlementScheduler = &task.InlineScheduler{Settle: ledgerUseCase.SettleDelivery}
	if config.AsynqClient != nil && config.Async != nil {
		settlement = task.NewAsynqScheduler(config.AsynqClient, config.Log)
		config.Async.HandleFunc(task.TypeSettleDelivery, ledgerUseCase.HandleSettlement)
	}

	deliveryUseCase := usecase.NewDeliveryUseCase(
		config.Log,
		config.Validate,
		deliveryRepository,
		driverRepository,
		config.Resolver,
		deliveryProducer,
		settlement,
	)

	// setup controller
	userController := http.NewUserController(userUseCase, config.Log)
	driverController := http.NewDriverController(driverUseCase, config.Log)
	deliveryController := http.NewDeliveryController(deliveryUseCase, config.Log)
	ledgerController := http.NewLedgerController(ledgerUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	routeConfig := route.RouteConfig{
		App:                config.App,
		Log:                config.Log,
		UserController:     userController,
		DriverController:   driverController,
		DeliveryController: deliveryController,
		LedgerController:   ledgerController,
		AuthMiddleware:     authMiddleware,
	}
	routeConfig.Setup()
}
