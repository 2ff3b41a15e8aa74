package middleware

import (
	"errors"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var ErrInvalidBody = errors.New("Invalid request body")

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

func HandleError(resp *restful.Response, err error, statusCode int) {
	if writeErr := resp.WriteHeaderAndEntity(statusCode, ErrorResponse{
		Error: err.Error(),
		Code:  statusCode,
	}); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
