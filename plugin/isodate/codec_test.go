package isodate

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hrygo/schedtext/internal/errors"
)

func newTestCodec(buf *bytes.Buffer) *Codec {
	return NewCodec(time.UTC, slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestCodec_Decode(t *testing.T) {
	var buf bytes.Buffer
	codec := newTestCodec(&buf)

	tests := []struct {
		name  string
		input string
		want  CalendarDateTime
	}{
		{"date only", "2012-04-22", CalendarDateTime{CalendarDate: CalendarDate{2012, 4, 22}}},
		{"date time", "2012-04-22T13:05:09", CalendarDateTime{CalendarDate{2012, 4, 22}, 13, 5, 9}},
		{"zulu", "2012-04-22T13:05:09Z", CalendarDateTime{CalendarDate{2012, 4, 22}, 13, 5, 9}},
		{"offset ignored", "2012-04-22T23:30:00-05:00", CalendarDateTime{CalendarDate{2012, 4, 22}, 23, 30, 0}},
		{"positive offset ignored", "2012-04-22T00:15:00+09:00", CalendarDateTime{CalendarDate{2012, 4, 22}, 0, 15, 0}},
		{"no seconds", "2012-04-22T08:45", CalendarDateTime{CalendarDate{2012, 4, 22}, 8, 45, 0}},
		{"fractional seconds", "2012-04-22T08:45:30.250Z", CalendarDateTime{CalendarDate{2012, 4, 22}, 8, 45, 30}},
		{"day overflow rolls", "2012-02-30", CalendarDateTime{CalendarDate: CalendarDate{2012, 3, 1}}},
		{"month overflow rolls", "2012-13-01", CalendarDateTime{CalendarDate: CalendarDate{2013, 1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Decode(tt.input)
			require.NoError(t, err)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCodec_DecodeEmpty(t *testing.T) {
	got, err := NewCodec(nil, nil).Decode("")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCodec_DecodeRejectsMissingFields(t *testing.T) {
	var buf bytes.Buffer
	codec := newTestCodec(&buf)

	for _, input := range []string{"2012", "2012-04", "2012-04-", "-04-22", "Z", "yyyy-mm-dd", "2012-04-22Tnoon"} {
		t.Run(input, func(t *testing.T) {
			got, err := codec.Decode(input)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDate))
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidDate))
		})
	}
}

func TestCodec_Encode(t *testing.T) {
	var buf bytes.Buffer
	codec := newTestCodec(&buf)

	tokyo := time.FixedZone("JST", 9*3600)
	lateTokyo := time.Date(2012, 4, 22, 23, 30, 0, 0, tokyo)
	dt := CalendarDateTime{CalendarDate{2012, 4, 22}, 10, 0, 0}

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"calendar date", CalendarDate{2012, 4, 2}, "2012-04-02"},
		{"calendar date pointer", &CalendarDate{1999, 12, 31}, "1999-12-31"},
		{"calendar date time", dt, "2012-04-22"},
		{"calendar date time pointer", &dt, "2012-04-22"},
		// The time's own zone is kept: 23:30 in Tokyo is still the 22nd.
		{"time keeps its own fields", lateTokyo, "2012-04-22"},
		{"time pointer", &lateTokyo, "2012-04-22"},
		{"short year unpadded", CalendarDate{987, 1, 5}, "987-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := codec.EncodeOutcome(tt.input, "fallback")
			assert.True(t, out.IsOk())
			assert.Equal(t, tt.want, out.Get())
		})
	}
}

func TestCodec_EncodeFallback(t *testing.T) {
	var buf bytes.Buffer
	codec := newTestCodec(&buf)

	var nilDate *CalendarDate
	var nilDateTime *CalendarDateTime
	var nilTime *time.Time

	inputs := []any{
		nil,
		nilDate,
		nilDateTime,
		nilTime,
		"2012-04-22",
		42,
		struct{}{},
		CalendarDate{2012, 0, 1},
		CalendarDate{2012, 13, 1},
		CalendarDate{2012, 1, 0},
		CalendarDate{2012, 1, 32},
		panickyDate{},
	}

	for _, in := range inputs {
		out := codec.EncodeOutcome(in, "default-day")
		assert.False(t, out.IsOk(), "input %#v", in)
		assert.Equal(t, "default-day", out.Get())
		assert.True(t, errors.Is(out.Err, ErrUnencodable))
		assert.Equal(t, "default-day", codec.Encode(in, "default-day"))
	}
	assert.True(t, strings.Contains(buf.String(), "level=WARN"))
}

type panickyDate struct{}

func (panickyDate) Date() (int, time.Month, int) {
	panic("broken calendar")
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"2012-04-22T13:05:09",
		"2000-02-29T00:00:00",
		"1999-12-31T23:59:59",
		"2026-10-17T08:00:00",
	}

	for _, in := range inputs {
		decoded, err := DecodeIsoDate(in)
		require.NoError(t, err)
		assert.Equal(t, in[:10], EncodeIsoDate(decoded, "x"))
		assert.Equal(t, in[:10], EncodeIsoDate(*decoded, "x"))
	}
}

func TestCalendarDateTime_In(t *testing.T) {
	dt := CalendarDateTime{CalendarDate{2012, 4, 22}, 13, 5, 9}
	assert.Equal(t, time.Date(2012, 4, 22, 13, 5, 9, 0, time.UTC), dt.In(time.UTC))
}
