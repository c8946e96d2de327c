package http

import (
	"github.com/gofiber/fiber/v2"
)

func badBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
}
