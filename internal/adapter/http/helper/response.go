package helper

import (
	"net/http"

	"todographql/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendMethodNotAllowedError(c *gin.Context, allow string, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	c.Header("Allow", allow)
	SendError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", errors)
}

func SendHealth(c *gin.Context, health response.HealthResponse) {
	status := http.StatusOK

	if health.Status != response.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, health)
}
