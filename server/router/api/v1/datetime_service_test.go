package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/schedtext/internal/profile"
	"github.com/hrygo/schedtext/plugin/locale"
)

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()

	p := &profile.Profile{
		Mode:           "dev",
		Version:        "test",
		Timezone:       "UTC",
		TimeFormat:     "g:ia",
		DateTimeFormat: "D, M jS g:ia",
		Locale:         "en",
	}
	reg := locale.NewRegistry()
	de := locale.English
	de.Tag = "de"
	de.MinuteAbbrev, de.MinutesAbbrev = "Min.", "Min."
	de.SecondAbbrev, de.SecondsAbbrev = "Sek.", "Sek."
	de.Days = [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	require.NoError(t, reg.Register(de))

	svc, err := NewAPIV1Service(p, reg, nil)
	require.NoError(t, err)

	e := echo.New()
	svc.RegisterRoutes(e)
	return svc, e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNormalizeTime(t *testing.T) {
	_, e := newTestService(t)

	tests := []struct {
		name     string
		query    string
		want     string
		fallback bool
	}{
		{"default format", "/api/v1/time/normalize?raw=1233pm", "12:33pm", false},
		{"spaced format", "/api/v1/time/normalize?raw=730&format=g:i+a", "7:30 am", false},
		{"pass-through format", "/api/v1/time/normalize?raw=1233pm&format=H:i", "1233pm", false},
		{"no digits", "/api/v1/time/normalize?raw=noon", "noon", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodGet, tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			got := decodeBody[NormalizeTimeResponse](t, rec)
			assert.Equal(t, tt.want, got.Result)
			assert.Equal(t, tt.fallback, got.Fallback)
		})
	}
}

func TestDecodeDate(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/date/decode?s=2012-04-22T13:05:09Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[DecodeDateResponse](t, rec)
	require.NotNil(t, got.Date)
	assert.Equal(t, 2012, got.Date.Year)
	assert.Equal(t, 4, got.Date.Month)
	assert.Equal(t, 22, got.Date.Day)
	assert.Equal(t, 13, got.Date.Hour)

	rec = doRequest(e, http.MethodGet, "/api/v1/date/decode?s=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":null`)

	rec = doRequest(e, http.MethodGet, "/api/v1/date/decode?s=2012-xx-22", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DATE")
}

func TestEncodeDate(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/date/encode", `{"year":2012,"month":4,"day":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[EncodeDateResponse](t, rec)
	assert.Equal(t, "2012-04-02", got.Date)
	assert.False(t, got.Fallback)

	rec = doRequest(e, http.MethodPost, "/api/v1/date/encode", `{"year":2012,"month":13,"day":2,"fallback":"n/a"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeBody[EncodeDateResponse](t, rec)
	assert.Equal(t, "n/a", got.Date)
	assert.True(t, got.Fallback)

	rec = doRequest(e, http.MethodPost, "/api/v1/date/encode", `{"year":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestOffsetDate(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/date/offset?from=2012-04-22&days=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2012-05-02", decodeBody[map[string]string](t, rec)["date"])

	rec = doRequest(e, http.MethodGet, "/api/v1/date/offset?from=2012-04-22", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2013-04-22", decodeBody[map[string]string](t, rec)["date"])

	rec = doRequest(e, http.MethodGet, "/api/v1/date/offset?days=soon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrettyTime(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/time/pretty?s=2012-04-22T13:05:09", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[PrettyTimeResponse](t, rec)
	assert.Equal(t, "1:05pm", got.Time)
	assert.Equal(t, "Sun, Apr 22nd 1:05pm", got.DateTime)
	assert.Equal(t, "en", got.Locale)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/time/pretty?s=2012-04-22T13:05:09", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeBody[PrettyTimeResponse](t, rec)
	assert.Equal(t, "de", got.Locale)
	assert.Equal(t, "Son, Apr 22nd 1:05pm", got.DateTime)
}

func TestElapsedTime(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/time/elapsed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[ElapsedTimeResponse](t, rec)
	assert.True(t, got.Fallback)
	assert.Equal(t, "min sec", got.Text)

	rec = doRequest(e, http.MethodGet, "/api/v1/time/elapsed?since=2012-04-22T13:05:09", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeBody[ElapsedTimeResponse](t, rec)
	assert.False(t, got.Fallback)
	assert.Positive(t, got.Minutes)
	assert.GreaterOrEqual(t, got.Seconds, 0)
	assert.Less(t, got.Seconds, 60)
}

func TestListLocalesAndHealthz(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/locales", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"de", "en"}, decodeBody[map[string][]string](t, rec)["locales"])

	rec = doRequest(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestGetMetricsOverview(t *testing.T) {
	svc, e := newTestService(t)

	doRequest(e, http.MethodGet, "/api/v1/time/normalize?raw=930", "")
	doRequest(e, http.MethodGet, "/api/v1/time/normalize?raw=noon", "")
	doRequest(e, http.MethodGet, "/api/v1/date/decode?s=bad", "")

	rec := doRequest(e, http.MethodGet, "/api/v1/system/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[MetricsOverviewResponse](t, rec)

	assert.EqualValues(t, 3, got.TotalRequests)
	assert.EqualValues(t, 1, got.ErrorCount)
	assert.InDelta(t, 2.0/3.0, got.SuccessRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, got.FallbackRate, 1e-9)
	require.Contains(t, got.Operations, "time.normalize")
	assert.EqualValues(t, 2, got.Operations["time.normalize"].Count)
	assert.EqualValues(t, 1, got.Operations["time.normalize"].FallbackCount)

	svc.Metrics.Reset()
	rec = doRequest(e, http.MethodGet, "/api/v1/system/metrics", "")
	got = decodeBody[MetricsOverviewResponse](t, rec)
	assert.Zero(t, got.TotalRequests)
}
