// Package isodate converts between ISO-8601-like date strings and calendar
// fields without applying any time zone conversion. Strings are read as
// already being in the server's reference frame, and dates are written from
// their own year/month/day fields.
package isodate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/hrygo/schedtext/internal/errors"
	"github.com/hrygo/schedtext/internal/util"
)

// ErrInvalidDate is returned when a date string lacks a usable year, month or day.
var ErrInvalidDate = apperrors.New(apperrors.ErrCodeInvalidDate, "invalid ISO date")

// ErrUnencodable is carried by fallback outcomes of Encode.
var ErrUnencodable = apperrors.New(apperrors.ErrCodeEncodeFailure, "value is not a calendar date")

var delimiters = regexp.MustCompile(`[-+:T]`)

// CalendarDate is a date without time or zone. Month is 1-based.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Date returns the fields in the shape of time.Time.Date.
func (d CalendarDate) Date() (int, time.Month, int) {
	return d.Year, time.Month(d.Month), d.Day
}

// CalendarDateTime is a CalendarDate with a wall clock time.
type CalendarDateTime struct {
	CalendarDate
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// In returns the wall clock time as an instant in loc.
func (d CalendarDateTime) In(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, loc)
}

// Codec decodes and encodes ISO dates relative to a reference location.
type Codec struct {
	loc    *time.Location
	logger *slog.Logger
}

// NewCodec creates a codec. A nil loc means time.Local.
func NewCodec(loc *time.Location, logger *slog.Logger) *Codec {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{loc: loc, logger: logger}
}

// Location returns the codec's reference frame.
func (c *Codec) Location() *time.Location {
	return c.loc
}

// Decode parses "YYYY-MM-DD[Thh:mm[:ss]][Z|±hh:mm]". An empty string yields
// nil with no error. Offsets are discarded. Out-of-range fields roll over the
// way time.Date does, so "2012-02-30" decodes as March 1.
func (c *Codec) Decode(s string) (*CalendarDateTime, error) {
	if s == "" {
		return nil, nil
	}
	s = strings.TrimSuffix(s, "Z")
	tokens := delimiters.Split(s, -1)

	if len(tokens) < 3 {
		return nil, apperrors.Wrap(ErrInvalidDate, apperrors.ErrCodeInvalidDate, "missing year, month or day").
			WithContext("input", s)
	}

	var fields [6]int
	for i := 0; i < len(fields) && i < len(tokens); i++ {
		v, err := parseToken(tokens[i], i < 3)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidDate, "bad "+tokenNames[i]).
				WithContext("input", s)
		}
		fields[i] = v
	}

	t := time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, c.loc)
	return &CalendarDateTime{
		CalendarDate: CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Hour:         t.Hour(),
		Minute:       t.Minute(),
		Second:       t.Second(),
	}, nil
}

var tokenNames = [6]string{"year", "month", "day", "hour", "minute", "second"}

func parseToken(tok string, required bool) (int, error) {
	if tok == "" {
		if required {
			return 0, ErrInvalidDate
		}
		return 0, nil
	}
	// Fractional seconds are truncated.
	if i := strings.IndexByte(tok, '.'); i >= 0 {
		tok = tok[:i]
	}
	return strconv.Atoi(tok)
}

// Encode renders date as "YYYY-MM-DD" from its own fields. Unusable values
// return fallback unchanged and log a warning.
func (c *Codec) Encode(date any, fallback string) string {
	return c.EncodeOutcome(date, fallback).Get()
}

// EncodeOutcome is Encode with the Ok/Fallback distinction exposed.
func (c *Codec) EncodeOutcome(date any, fallback string) (out util.Outcome[string]) {
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, fmt.Sprint(r))
			c.logger.Warn("date encode panicked, using fallback", slog.String("fallback", fallback), slog.String("error", err.Error()))
			out = util.Fallback(fallback, err)
		}
	}()

	year, month, day, err := calendarFields(date)
	if err != nil {
		c.logger.Warn("date encode failed, using fallback",
			slog.String("fallback", fallback),
			slog.String("type", fmt.Sprintf("%T", date)),
			slog.String("error", err.Error()),
		)
		return util.Fallback(fallback, err)
	}

	s := fmt.Sprintf("%d-%02d-%02d", year, month, day)
	c.logger.Debug("date encoded", slog.String("date", s))
	return util.Ok(s)
}

type dater interface {
	Date() (int, time.Month, int)
}

func calendarFields(v any) (year, month, day int, err error) {
	var d dater
	switch x := v.(type) {
	case nil:
		return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "nil date")
	case *CalendarDate:
		if x == nil {
			return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "nil date")
		}
		d = *x
	case *CalendarDateTime:
		if x == nil {
			return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "nil date")
		}
		d = x.CalendarDate
	case *time.Time:
		if x == nil {
			return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "nil time")
		}
		d = *x
	case dater:
		d = x
	default:
		return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "unsupported type").
			WithContext("type", fmt.Sprintf("%T", v))
	}

	y, m, dd := d.Date()
	if m < time.January || m > time.December {
		return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "month out of range").
			WithContext("month", int(m))
	}
	if dd < 1 || dd > 31 {
		return 0, 0, 0, apperrors.Wrap(ErrUnencodable, apperrors.ErrCodeEncodeFailure, "day out of range").
			WithContext("day", dd)
	}
	return y, int(m), dd, nil
}

// DecodeIsoDate decodes s in the local time zone.
func DecodeIsoDate(s string) (*CalendarDateTime, error) {
	return NewCodec(time.Local, nil).Decode(s)
}

// EncodeIsoDate encodes date, returning fallback when it cannot.
func EncodeIsoDate(date any, fallback string) string {
	return NewCodec(time.Local, nil).Encode(date, fallback)
}
