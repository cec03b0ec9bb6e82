package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"streamflix/pkg/utils"
)

// Recovery reports panics to Sentry and answers with the error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(c.Request)
				hub.Scope().SetTag("trace_id", c.GetString(utils.TraceIDKey))
				hub.CaptureException(err)
				hub.Flush(2 * time.Second)

				utils.Logger(c).WithError(err).Error("panic recovered")
				utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}
