package httperror

import "net/http"

// CommonError is the body shared by every HTTP-facing error.
type CommonError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e CommonError) Error() string {
	return e.Message
}

func (e CommonError) StatusCode() int {
	return e.Code
}

// ValidationError: malformed coordinate, negative distance, non-positive amount.
type BadRequest struct{ CommonError }

type Unauthorized struct{ CommonError }

type Forbidden struct{ CommonError }

// NotFoundError: referenced driver, delivery or user does not exist.
type NotFound struct{ CommonError }

// StateError: illegal status transition, stale update or duplicate settlement.
type Conflict struct{ CommonError }

// ResolutionError: no distance could be produced at all.
type UnprocessableEntity struct{ CommonError }

// PersistenceError: the store failed a read or write.
type InternalServerError struct{ CommonError }

func NewBadRequest() *BadRequest {
	return &BadRequest{CommonError{Code: http.StatusBadRequest, Message: "Bad Request"}}
}

func NewUnauthorized() *Unauthorized {
	return &Unauthorized{CommonError{Code: http.StatusUnauthorized, Message: "Unauthorized"}}
}

func NewForbidden() *Forbidden {
	return &Forbidden{CommonError{Code: http.StatusForbidden, Message: "Forbidden"}}
}

func NewNotFound() *NotFound {
	return &NotFound{CommonError{Code: http.StatusNotFound, Message: "Not Found"}}
}

func NewConflict() *Conflict {
	return &Conflict{CommonError{Code: http.StatusConflict, Message: "Conflict"}}
}

func NewUnprocessableEntity() *UnprocessableEntity {
	return &UnprocessableEntity{CommonError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable Entity"}}
}

func NewInternalServerError() *InternalServerError {
	return &InternalServerError{CommonError{Code: http.StatusInternalServerError, Message: "Internal Server Error"}}
}
