package middlewares

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"recipebook/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxRequestID    = "requestID"
	HeaderRequestID = "X-Request-ID"
)

// RequestLogger tags each request with an id and logs it when done.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Recovery is the last-resort handler for panics: it logs the error, the
// component it came from and request diagnostics, then answers 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		logHandlerError(c, "unhandled panic", err, nil)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// ErrorLogger logs every error handlers attached with c.Error.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			logHandlerError(c, "request error", e.Err, e.Meta)
		}
	}
}

func logHandlerError(c *gin.Context, msg string, err error, info any) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("component", c.HandlerName()),
		zap.String("route", RouteName(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(ctxRequestID)),
	}
	if info != nil {
		fields = append(fields, zap.Any("info", info))
	}
	logger.Error(msg, fields...)
}
