package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
	"github.com/oksasatya/user-cache-api/pkg/helpers"
	"github.com/oksasatya/user-cache-api/pkg/response"
)

// statusFor maps service errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return http.StatusConflict, "email already exists"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"route":      c.FullPath(),
		})
	}
	response.Error[any](c, status, msg, nil)
}
