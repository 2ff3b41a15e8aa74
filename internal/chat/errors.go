package chat

import (
	"errors"
	"net/http"
)

// ClientError reports invalid caller input. It is never retried.
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string {
	return e.Message
}

var ErrEmptyMessage = &ClientError{Message: "Message must not be empty."}

// ServerError wraps any failure of the upstream completion call.
type ServerError struct {
	Err error
}

func (e *ServerError) Error() string {
	if e.Err == nil {
		return "Model error"
	}
	return "Model error: " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error returned by Service.Submit to a status code.
func HTTPStatus(err error) int {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
