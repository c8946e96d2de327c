package route

import (
	"delivery-service/src/internal/delivery/http"
	"delivery-service/src/internal/delivery/http/middleware"
	"delivery-service/src/internal/model"
	"delivery-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteConfig struct {
	App                *fiber.App
	Log                log.Log
	UserController     *http.UserController
	DriverController   *http.DriverController
	DeliveryController *http.DeliveryController
	LedgerController   *http.LedgerController
	AuthMiddleware     fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger(c.Log))
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	v1 := c.App.Group("/v1", c.AuthMiddleware)

	driverOrAdmin := middleware.RequireRole(model.RoleDriver, model.RoleAdmin)

	v1.Post("/pricing/quote", c.DeliveryController.Quote)

	v1.Post("/users", c.UserController.Create)
	v1.Get("/users/profile", c.UserController.GetProfile)
	v1.Put("/users/profile", c.UserController.UpdateProfile)
	v1.Get("/users/deliveries", c.DeliveryController.ListMine)

	v1.Post("/deliveries", c.DeliveryController.Create)
	v1.Get("/deliveries/pending", driverOrAdmin, c.DeliveryController.ListPending)
	v1.Get("/deliveries/:id", c.DeliveryController.Get)
	v1.Patch("/deliveries/:id/status", c.DeliveryController.TransitionStatus)

	v1.Post("/drivers", c.DriverController.Register)
	me := v1.Group("/drivers/me", middleware.RequireRole(model.RoleDriver))
	me.Get("", c.DriverController.Profile)
	me.Patch("/status", c.DriverController.UpdateStatus)
	me.Get("/deliveries", c.DeliveryController.ListForDriver)
	me.Get("/points", c.LedgerController.MyBalance)

	admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.Get("/drivers", c.DriverController.List)
	admin.Patch("/drivers/:id/active", c.DriverController.SetActive)
	admin.Post("/drivers/:id/points/credit", c.LedgerController.Credit)
	admin.Post("/drivers/:id/points/debit", c.LedgerController.Debit)
	admin.Get("/drivers/:id/points", c.LedgerController.Balance)
	admin.Get("/drivers/:id/points/audit", c.LedgerController.Audit)
	admin.Get("/deliveries", c.DeliveryController.ListAll)
}
