package usecase

import (
	"fmt"

	httpError "delivery-service/src/pkg/http-error"
)

func badRequest(format string, args ...interface{}) error {
	errObj := httpError.NewBadRequest()
	errObj.Message = fmt.Sprintf(format, args...)
	return errObj
}

func forbidden(format string, args ...interface{}) error {
	errObj := httpError.NewForbidden()
	errObj.Message = fmt.Sprintf(format, args...)
	return errObj
}

func notFound(format string, args ...interface{}) error {
	errObj := httpError.NewNotFound()
	errObj.Message = fmt.Sprintf(format, args...)
	return errObj
}

func conflict(format string, args ...interface{}) error {
	errObj := httpError.NewConflict()
	errObj.Message = fmt.Sprintf(format, args...)
	return errObj
}

func unprocessable(format string, args ...interface{}) error {
	errObj := httpError.NewUnprocessableEntity()
	errObj.Message = fmt.Sprintf(format, args...)
	return errObj
}

func internalError(format string, args ...interface{}) error {
	errObj := httpError.NewInternalServerError()
	errObj.Message = fmt.Sprintf(format, args...)
	return errObj
}
