package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/caretrack/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Kind    errors.Kind       `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError sends an error response. Non-application errors are reported as internal.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.As(err)
	status := StatusCode(appErr.Kind)

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("kind", string(appErr.Kind)).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, Response{
		Status: "error",
		Error: &Error{
			Kind:    appErr.Kind,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		},
	})
}

// RespondWithStatus sends an error response with an explicit status
func RespondWithStatus(c *gin.Context, status int, err error) {
	appErr := errors.As(err)
	c.AbortWithStatusJSON(status, Response{
		Status: "error",
		Error: &Error{
			Kind:    appErr.Kind,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		},
	})
}

// StatusCode maps an error kind to its HTTP status
func StatusCode(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindConflict:
		return http.StatusConflict
	case errors.KindUnauthorized:
		return http.StatusUnauthorized
	case errors.KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
