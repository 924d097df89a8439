// Package prettytime renders human-friendly durations and dates for schedule
// displays using an injected locale table.
package prettytime

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/hrygo/schedtext/internal/errors"
	"github.com/hrygo/schedtext/internal/util"
	"github.com/hrygo/schedtext/plugin/isodate"
	"github.com/hrygo/schedtext/plugin/locale"
)

const (
	// DefaultDateTimeFormat is the PHP layout for date-time displays.
	DefaultDateTimeFormat = "D, M jS g:ia"
	// DefaultTimeFormat is the PHP layout for time-only displays.
	DefaultTimeFormat = "g:ia"
	// DefaultDayOffset is used by AddDays when no offset is given.
	DefaultDayOffset = 365
)

// Options configures display layouts.
type Options struct {
	DateTimeFormat string
	TimeFormat     string
}

// ElapsedTime is a whole-minute / remaining-second split of a duration.
type ElapsedTime struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Formatter renders locale-aware display strings.
type Formatter struct {
	locale         locale.Provider
	codec          *isodate.Codec
	dateTimeFormat string
	timeFormat     string
	now            func() time.Time
}

// NewFormatter creates a formatter. Empty layouts take the defaults; a nil
// codec decodes strings in time.Local.
func NewFormatter(p locale.Provider, codec *isodate.Codec, opts Options) *Formatter {
	if p == nil {
		p = locale.English
	}
	if codec == nil {
		codec = isodate.NewCodec(time.Local, nil)
	}
	if opts.DateTimeFormat == "" {
		opts.DateTimeFormat = DefaultDateTimeFormat
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultTimeFormat
	}
	return &Formatter{
		locale:         p,
		codec:          codec,
		dateTimeFormat: opts.DateTimeFormat,
		timeFormat:     opts.TimeFormat,
		now:            time.Now,
	}
}

// WithLocale returns a copy of the formatter using p.
func (f *Formatter) WithLocale(p locale.Provider) *Formatter {
	c := *f
	c.locale = p
	return &c
}

// MinutesAndSeconds renders "1 min, 05 secs" style text. Minutes are omitted
// when m <= 0. Seconds are always two digits with the plural abbreviation.
func (f *Formatter) MinutesAndSeconds(m, s int) string {
	names := f.locale.TimeStrings()

	var b strings.Builder
	if m > 0 {
		b.WriteString(strconv.Itoa(m))
		b.WriteByte(' ')
		if m == 1 {
			b.WriteString(names.MinuteAbbrev)
		} else {
			b.WriteString(names.MinutesAbbrev)
		}
		b.WriteString(", ")
	}
	b.WriteString(pad2(s))
	b.WriteByte(' ')
	b.WriteString(names.SecondsAbbrev)
	return b.String()
}

// CompactMinutesAndSeconds renders "3:05" (sep ":") or "3.05" (sep ".").
func (f *Formatter) CompactMinutesAndSeconds(m, s int, sep string) string {
	if m > 0 {
		return strconv.Itoa(m) + sep + pad2(s)
	}
	return pad2(s)
}

// MonthAsInt maps a localized month name to its number, zero-padded when pad
// is set. Unknown names are returned unchanged.
func (f *Formatter) MonthAsInt(name string, pad bool) string {
	for i, m := range f.locale.TimeStrings().Months {
		if m == name {
			if pad {
				return pad2(i + 1)
			}
			return strconv.Itoa(i + 1)
		}
	}
	return name
}

// Elapsed returns the time since since, plus extraMin and extraSec. A zero
// since cannot be measured and falls back to a zero value.
func (f *Formatter) Elapsed(since time.Time, extraMin, extraSec int) util.Outcome[ElapsedTime] {
	if since.IsZero() {
		return util.Fallback(ElapsedTime{}, apperrors.InvalidArgument("elapsed time needs a start time"))
	}
	total := int(math.Round(f.now().Sub(since).Seconds())) + extraSec
	return util.Ok(ElapsedTime{
		Minutes: floorDiv(total, 60) + extraMin,
		Seconds: total - floorDiv(total, 60)*60,
	})
}

// FormatElapsed renders e with MinutesAndSeconds, or the bare unit
// abbreviations when e is a fallback.
func (f *Formatter) FormatElapsed(e util.Outcome[ElapsedTime]) string {
	if !e.IsOk() {
		names := f.locale.TimeStrings()
		return names.MinuteAbbrev + " " + names.SecondAbbrev
	}
	return f.MinutesAndSeconds(e.Value.Minutes, e.Value.Seconds)
}

// AddDays offsets from by whole calendar days. A zero from means now.
func (f *Formatter) AddDays(from time.Time, days int) time.Time {
	if from.IsZero() {
		from = f.now()
	}
	return from.AddDate(0, 0, days)
}

// PrettyDate renders "pre Sun Apr 22 2012 @ 1:05:09 PM post". A zero t means now.
func (f *Formatter) PrettyDate(pre, post string, t time.Time) string {
	if t.IsZero() {
		t = f.now()
	}
	names := f.locale.TimeStrings()
	return pre + FormatPHP(t, `D M d Y`, names) + " @ " + FormatPHP(t, `g:i:s A`, names) + post
}

// PrettyDateTime renders v (a time.Time or a date string Codec.Resolve accepts)
// with the date-time layout.
func (f *Formatter) PrettyDateTime(v any) (string, error) {
	return f.render(v, f.dateTimeFormat)
}

// PrettyTime renders v (a time.Time or ISO string) with the time layout.
func (f *Formatter) PrettyTime(v any) (string, error) {
	return f.render(v, f.timeFormat)
}

func (f *Formatter) render(v any, layout string) (string, error) {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return "", apperrors.InvalidArgument("nil time")
		}
		t = *x
	case string:
		var err error
		t, err = f.codec.Resolve(x, f.now())
		if err != nil {
			return "", err
		}
		if t.IsZero() {
			return "", nil
		}
	default:
		return "", apperrors.InvalidArgument("unsupported value for display").WithContext("value", v)
	}
	return FormatPHP(t, layout, f.locale.TimeStrings()), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
