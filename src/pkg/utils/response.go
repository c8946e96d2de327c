package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type BaseResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

type statusCoder interface {
	StatusCode() int
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(BaseResponse{
		Success: true,
		Data:    data,
		Message: message,
		Code:    code,
	})
}

// ResponseError maps typed errors from pkg/http-error to their status code.
// Anything else is reported as 500 except fiber's own errors.
func ResponseError(err error, ctx *fiber.Ctx) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var sc statusCoder
	var fe *fiber.Error
	switch {
	case errors.As(err, &sc):
		code = sc.StatusCode()
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	}

	return ctx.Status(code).JSON(BaseResponse{
		Success: false,
		Data:    nil,
		Message: message,
		Code:    code,
	})
}
