package utils

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	TraceIDKey = "trace_id"
	LoggerKey  = "logger"
	UserIDKey  = "user_id"
	EmailKey   = "email"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondSuccess writes data as the bare response body.
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
	})
}

// Logger returns the request scoped logger installed by the request logging
// middleware, or the standard logger when none is present.
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(LoggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func HandleServiceError(c *gin.Context, err error) {
	var unavailable *UnavailableError

	switch {
	case errors.Is(err, ErrBadRequest):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.As(err, &unavailable):
		Logger(c).WithError(err).WithField("op", unavailable.Op).Warn("catalog upstream failed")
		RespondError(c, http.StatusBadGateway, "Unable to fetch "+unavailable.Op)
	case errors.Is(err, ErrDatabaseError):
		Logger(c).WithError(err).Error("database error")
		sentry.CaptureException(err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		Logger(c).WithError(err).Error("unhandled service error")
		sentry.CaptureException(err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
