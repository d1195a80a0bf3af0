package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/examkeeper/internal/logging"
)

// multipartSlackKB covers form boundaries and headers on top of the file.
const multipartSlackKB = 64

// RegisterRoutes mounts the API on e.
//
//	GET  /health
//	POST /api/v1/exams/files   (JWT)
//	GET  /api/v1/exams         (JWT)
//	GET  /api/v1/exams/:id     (JWT)
func RegisterRoutes(e *echo.Echo, h *Handler, secret []byte, maxUploadBytes int64) {
	e.GET("/health", h.HandleHealth)

	v1 := e.Group("/api/v1", JWTAuth(secret))
	v1.POST("/exams/files", h.HandleUpload,
		middleware.BodyLimit(fmt.Sprintf("%dK", maxUploadBytes/1024+multipartSlackKB)))
	v1.GET("/exams", h.HandleList)
	v1.GET("/exams/:id", h.HandleGet)
}

// NewEcho builds an echo instance with recovery, access logging and the
// APIError handler installed.
func NewEcho(log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error != nil {
				log.Warn(ctx, "request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "error", v.Error)
				return nil
			}
			log.Info(ctx, "request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	return e
}
