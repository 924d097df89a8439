package timestr

import (
	"log/slog"

	"github.com/hrygo/schedtext/internal/util"
)

// DefaultTimeFormat is the display layout used when none is configured.
const DefaultTimeFormat = "g:ia"

// Service implements TimeService.
type Service struct {
	normalizer    *Normalizer
	logger        *slog.Logger
	defaultFormat FormatSpec
}

// NewService creates a time service. An empty defaultFormat selects
// DefaultTimeFormat.
func NewService(defaultFormat string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultFormat == "" {
		defaultFormat = DefaultTimeFormat
	}
	return &Service{
		normalizer:    NewNormalizer(logger),
		logger:        logger,
		defaultFormat: FormatSpec(defaultFormat),
	}
}

// ParseTime normalizes raw for 12-hour formats and passes everything else through.
func (s *Service) ParseTime(raw string, format string) string {
	return s.Parse(raw, format).Get()
}

// ParseTimeDefault normalizes raw with the configured display format.
func (s *Service) ParseTimeDefault(raw string) string {
	return s.ParseTime(raw, string(s.defaultFormat))
}

// Parse is ParseTime with the outcome exposed. A pass-through format is Ok
// with the raw input; input without digits is a Fallback to the raw input.
func (s *Service) Parse(raw string, format string) util.Outcome[string] {
	layout := FormatSpec(format)
	if !layout.IsTwelveHour() {
		return util.Ok(raw)
	}
	return s.Correct(raw, layout)
}

// Correct normalizes raw without checking that layout is 12-hour.
func (s *Service) Correct(raw string, layout FormatSpec) util.Outcome[string] {
	c, err := Tokenize(raw)
	if err != nil {
		s.logger.Debug("time string left as-is", slog.String("input", raw), slog.String("error", err.Error()))
		return util.Fallback(raw, err)
	}
	return util.Ok(Format(s.normalizer.Normalize(c), layout))
}

// ParseAmbiguousTime normalizes raw using format, logging to slog.Default.
func ParseAmbiguousTime(raw string, format string) string {
	return NewService(DefaultTimeFormat, nil).ParseTime(raw, format)
}

// Ensure Service implements TimeService
var _ TimeService = (*Service)(nil)
