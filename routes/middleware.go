package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-manager/models"
)

const (
	genericErrorMessage = "Something went wrong, please try again"
	bodyTooLargeMessage = "Request body too large"
)

// ErrorHandler turns the last error a handler pushed with c.Error into the
// JSON error body. Handlers never write error responses themselves.
func ErrorHandler(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, msg := classify(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		}
		c.JSON(status, models.ErrorResponse{Msg: msg})
	}
}

func classify(err error) (int, string) {
	var verr *models.ValidationError
	var nf *models.NotFoundError
	var ce *models.CastError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.As(err, &ce):
		return http.StatusNotFound, ce.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, bodyTooLargeMessage
	default:
		return http.StatusInternalServerError, genericErrorMessage
	}
}

// Recovery answers a panicking handler with the generic 500 body.
func Recovery(logger *log.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", "method", c.Request.Method, "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Msg: genericErrorMessage})
	})
}

func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
