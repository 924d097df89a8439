package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/hrygo/schedtext/internal/errors"
	"github.com/hrygo/schedtext/plugin/isodate"
	"github.com/hrygo/schedtext/plugin/prettytime"
)

// NormalizeTimeResponse is the body of GET /api/v1/time/normalize.
type NormalizeTimeResponse struct {
	Input    string `json:"input"`
	Format   string `json:"format"`
	Result   string `json:"result"`
	Fallback bool   `json:"fallback"`
}

// DecodeDateResponse is the body of GET /api/v1/date/decode. Date is null
// for an empty input.
type DecodeDateResponse struct {
	Input string                    `json:"input"`
	Date  *isodate.CalendarDateTime `json:"date"`
}

// EncodeDateRequest is the body of POST /api/v1/date/encode.
type EncodeDateRequest struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Fallback string `json:"fallback"`
}

// EncodeDateResponse is the body of POST /api/v1/date/encode.
type EncodeDateResponse struct {
	Date     string `json:"date"`
	Fallback bool   `json:"fallback"`
}

// PrettyTimeResponse is the body of GET /api/v1/time/pretty.
type PrettyTimeResponse struct {
	Input    string `json:"input"`
	Locale   string `json:"locale"`
	Time     string `json:"time"`
	DateTime string `json:"date_time"`
}

// ElapsedTimeResponse is the body of GET /api/v1/time/elapsed.
type ElapsedTimeResponse struct {
	prettytime.ElapsedTime
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// NormalizeTime normalizes a free-form time string.
// GET /api/v1/time/normalize?raw=1233pm&format=g:ia
// An omitted format uses the configured display format.
func (s *APIV1Service) NormalizeTime(c echo.Context) error {
	const op = "time.normalize"

	raw := c.QueryParam("raw")
	format := c.QueryParam("format")
	if format == "" {
		format = s.Profile.TimeFormat
	}

	out := s.TimeService.Parse(raw, format)
	s.record(c, op, !out.IsOk(), nil)
	return c.JSON(http.StatusOK, NormalizeTimeResponse{
		Input:    raw,
		Format:   format,
		Result:   out.Get(),
		Fallback: !out.IsOk(),
	})
}

// DecodeDate decodes an ISO date(-time) string in the server frame.
// GET /api/v1/date/decode?s=2012-04-22T13:05:00Z
func (s *APIV1Service) DecodeDate(c echo.Context) error {
	const op = "date.decode"

	in := c.QueryParam("s")
	dt, err := s.Codec.Decode(in)
	s.record(c, op, false, err)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, DecodeDateResponse{Input: in, Date: dt})
}

// EncodeDate renders calendar fields as YYYY-MM-DD, or the request's
// fallback when the fields are not a date.
// POST /api/v1/date/encode
func (s *APIV1Service) EncodeDate(c echo.Context) error {
	const op = "date.encode"

	var req EncodeDateRequest
	if err := c.Bind(&req); err != nil {
		err = apperrors.InvalidArgument("malformed request body")
		s.record(c, op, false, err)
		return errorJSON(c, http.StatusBadRequest, err)
	}

	out := s.Codec.EncodeOutcome(isodate.CalendarDate{Year: req.Year, Month: req.Month, Day: req.Day}, req.Fallback)
	s.record(c, op, !out.IsOk(), nil)
	return c.JSON(http.StatusOK, EncodeDateResponse{Date: out.Get(), Fallback: !out.IsOk()})
}

// OffsetDate shifts a date by whole days.
// GET /api/v1/date/offset?from=2012-04-22&days=7
// from also accepts other layouts and phrases like "next friday". Missing
// from means today; missing days means one year.
func (s *APIV1Service) OffsetDate(c echo.Context) error {
	const op = "date.offset"

	days := prettytime.DefaultDayOffset
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			err := apperrors.InvalidArgument("days must be an integer")
			s.record(c, op, false, err)
			return errorJSON(c, http.StatusBadRequest, err)
		}
		days = n
	}

	from, err := s.Codec.Resolve(c.QueryParam("from"), time.Now())
	if err != nil {
		s.record(c, op, false, err)
		return errorJSON(c, http.StatusBadRequest, err)
	}

	shifted := s.Pretty.AddDays(from, days)
	s.record(c, op, false, nil)
	return c.JSON(http.StatusOK, map[string]string{"date": s.Codec.Encode(shifted, "")})
}

// PrettyTime renders an ISO string with the configured display layouts.
// GET /api/v1/time/pretty?s=2012-04-22T13:05:00&locale=de
func (s *APIV1Service) PrettyTime(c echo.Context) error {
	const op = "time.pretty"

	in := c.QueryParam("s")
	names := s.Locales.Lookup(s.localeTag(c))
	f := s.Pretty.WithLocale(names)

	t, err := f.PrettyTime(in)
	if err == nil {
		var dt string
		dt, err = f.PrettyDateTime(in)
		if err == nil {
			s.record(c, op, false, nil)
			return c.JSON(http.StatusOK, PrettyTimeResponse{Input: in, Locale: names.Tag, Time: t, DateTime: dt})
		}
	}
	s.record(c, op, false, err)
	return errorJSON(c, http.StatusBadRequest, err)
}

// ElapsedTime reports minutes and seconds since an ISO timestamp.
// GET /api/v1/time/elapsed?since=2012-04-22T13:05:00&locale=en
func (s *APIV1Service) ElapsedTime(c echo.Context) error {
	const op = "time.elapsed"

	since, err := s.Codec.Resolve(c.QueryParam("since"), time.Now())
	if err != nil {
		s.record(c, op, false, err)
		return errorJSON(c, http.StatusBadRequest, err)
	}

	f := s.Pretty.WithLocale(s.Locales.Lookup(s.localeTag(c)))
	out := f.Elapsed(since, 0, 0)
	s.record(c, op, !out.IsOk(), nil)
	return c.JSON(http.StatusOK, ElapsedTimeResponse{
		ElapsedTime: out.Get(),
		Text:        f.FormatElapsed(out),
		Fallback:    !out.IsOk(),
	})
}

// ListLocales lists the registered locale tags.
// GET /api/v1/locales
func (s *APIV1Service) ListLocales(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"locales": s.Locales.Tags()})
}

// localeTag prefers ?locale=, then Accept-Language, then the profile default.
func (s *APIV1Service) localeTag(c echo.Context) string {
	if v := c.QueryParam("locale"); v != "" {
		return v
	}
	if v := c.Request().Header.Get("Accept-Language"); v != "" {
		return v
	}
	return s.Profile.Locale
}

func errorJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{
		"code":    errorCode(err),
		"message": err.Error(),
	})
}

func errorCode(err error) string {
	return string(apperrors.GetCodeFromError(err, apperrors.ErrCodeInvalidArgument))
}
