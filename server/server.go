package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/schedtext/internal/profile"
	"github.com/hrygo/schedtext/plugin/locale"
	"github.com/hrygo/schedtext/server/internal/observability"
	"github.com/hrygo/schedtext/server/middleware"
	apiv1 "github.com/hrygo/schedtext/server/router/api/v1"
)

// Server is the HTTP front of the normalization service.
type Server struct {
	Profile *profile.Profile
	API     *apiv1.APIV1Service

	echoServer  *echo.Echo
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// rateJanitorInterval is how often idle rate limiter clients are dropped.
const rateJanitorInterval = time.Minute

// NewServer wires middleware and routes for p.
func NewServer(p *profile.Profile, locales *locale.Registry, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	api, err := apiv1.NewAPIV1Service(p, locales, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create API service")
	}

	e := echo.New()
	e.Debug = p.IsDev()
	e.HideBanner = true
	e.HidePort = true
	// Client addresses come from the socket; X-Forwarded-For and X-Real-IP
	// are caller-controlled.
	e.IPExtractor = echo.ExtractIPDirect()

	s := &Server{
		Profile:    p,
		API:        api,
		echoServer: e,
		logger:     logger,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestContext(logger))
	e.Use(echomiddleware.Recover())
	if p.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(p.RateLimit, p.RateBurst)
		e.Use(s.rateLimiter.Middleware())
	}
	api.RegisterRoutes(e)

	return s, nil
}

// handleError logs server-side failures with the request's fields before
// echo writes the response.
func (s *Server) handleError(err error, c echo.Context) {
	status := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}
	if status >= http.StatusInternalServerError {
		if rc, ok := observability.FromContext(c.Request().Context()); ok {
			rc.Error("request failed", err, slog.Int("status", status))
		} else {
			s.logger.Error("request failed", slog.String("error", err.Error()), slog.Int("status", status))
		}
	}
	s.echoServer.DefaultHTTPErrorHandler(err, c)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	s.logger.InfoContext(ctx, "server starting",
		slog.String("addr", addr),
		slog.String("mode", s.Profile.Mode),
		slog.String("timezone", s.API.Codec.Location().String()),
	)
	if s.rateLimiter != nil {
		s.rateLimiter.StartJanitor(ctx, rateJanitorInterval, s.logger)
	}

	if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown drains in-flight requests for up to ten seconds.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shutdown server")
	}
	s.logger.Info("server stopped")
	return nil
}
