package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schedtext/server/internal/observability"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Request-Id"

// RequestContext attaches an observability.RequestContext to every request,
// honoring an incoming X-Request-Id, and logs completion at debug level.
func RequestContext(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			op := req.Method + " " + c.Path()

			var rc *observability.RequestContext
			if id := req.Header.Get(RequestIDHeader); id != "" {
				rc = observability.NewRequestContextWithID(logger, id, op, c.RealIP())
			} else {
				rc = observability.NewRequestContext(logger, op, c.RealIP())
			}
			c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), rc)))
			c.Response().Header().Set(RequestIDHeader, rc.RequestID)

			err := next(c)
			rc.Debug("request completed",
				slog.Int("status", c.Response().Status),
				slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
			)
			return err
		}
	}
}
