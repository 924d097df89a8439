package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schedtext/internal/profile"
	"github.com/hrygo/schedtext/plugin/isodate"
	"github.com/hrygo/schedtext/plugin/locale"
	"github.com/hrygo/schedtext/plugin/prettytime"
	"github.com/hrygo/schedtext/plugin/timestr"
	"github.com/hrygo/schedtext/server/internal/observability"
	"github.com/hrygo/schedtext/server/timezone"
)

// APIV1Service serves the text normalization API.
type APIV1Service struct {
	Profile     *profile.Profile
	TimeService *timestr.Service
	Codec       *isodate.Codec
	Locales     *locale.Registry
	Pretty      *prettytime.Formatter
	Metrics     *observability.Metrics

	logger *slog.Logger
}

// NewAPIV1Service wires the plugins from a validated profile.
func NewAPIV1Service(p *profile.Profile, locales *locale.Registry, logger *slog.Logger) (*APIV1Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if locales == nil {
		locales = locale.NewRegistry()
	}
	loc, err := timezone.ParseTimezone(p.Timezone)
	if err != nil {
		return nil, err
	}

	codec := isodate.NewCodec(loc, logger)
	return &APIV1Service{
		Profile:     p,
		TimeService: timestr.NewService(p.TimeFormat, logger),
		Codec:       codec,
		Locales:     locales,
		Pretty: prettytime.NewFormatter(locales.Lookup(p.Locale), codec, prettytime.Options{
			DateTimeFormat: p.DateTimeFormat,
			TimeFormat:     p.TimeFormat,
		}),
		Metrics: observability.NewMetrics(1000),
		logger:  logger,
	}, nil
}

// RegisterRoutes registers the API routes with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Healthz)

	g := e.Group("/api/v1")
	g.GET("/time/normalize", s.NormalizeTime)
	g.GET("/time/pretty", s.PrettyTime)
	g.GET("/time/elapsed", s.ElapsedTime)
	g.GET("/date/decode", s.DecodeDate)
	g.POST("/date/encode", s.EncodeDate)
	g.GET("/date/offset", s.OffsetDate)
	g.GET("/locales", s.ListLocales)
	g.GET("/system/metrics", s.GetMetricsOverview)
}

// Healthz reports liveness.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
		"now":     timezone.NowInTimezone(s.Codec.Location()).Format(time.RFC3339),
	})
}

// record updates metrics and logs degraded or failed responses.
func (s *APIV1Service) record(c echo.Context, op string, fallback bool, err error) {
	rc, ok := observability.FromContext(c.Request().Context())
	if !ok {
		rc = observability.NewRequestContext(s.logger, op, c.RealIP())
	}
	s.Metrics.RecordRequest(op, rc.Duration())

	switch {
	case err != nil:
		s.Metrics.RecordFailure(op)
		rc.Warn("request rejected", slog.String(observability.LogFieldErrorCode, errorCode(err)), slog.String("error", err.Error()))
	case fallback:
		s.Metrics.RecordFallback(op)
		rc.Info("request answered with fallback", slog.Bool(observability.LogFieldFallback, true))
	}
}
