package middleware

import (
	"fmt"
	"strconv"
	"time"

	"delivery-service/src/internal/observability"
	"delivery-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
)

const slowRequest = 2 * time.Second

// NewLogger logs every request and feeds the HTTP prometheus metrics.
func NewLogger(logger log.Log) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		if err != nil {
			// let the app error handler write the response before reading the status
			if handlerErr := ctx.App().ErrorHandler(ctx, err); handlerErr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)

		status := ctx.Response().StatusCode()
		path := ctx.Route().Path
		labels := []string{ctx.Method(), path, strconv.Itoa(status)}
		observability.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		observability.HTTPRequestDuration.WithLabelValues(labels...).Observe(elapsed.Seconds())

		meta := fmt.Sprintf("%s %s status=%d took=%s ip=%s", ctx.Method(), ctx.OriginalURL(), status, elapsed, ctx.IP())
		switch {
		case elapsed > slowRequest:
			logger.Slow("http", "slow request", path, meta)
		case status >= fiber.StatusInternalServerError:
			logger.Error("http", "request failed", path, meta)
		default:
			logger.Info("http", "request", path, meta)
		}
		return nil
	}
}
