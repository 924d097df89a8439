// Package timestr normalizes free-form clock text ("1233pm", "944am", "13:00",
// "1 p.m") into the canonical "H:MM am/pm" form used by schedule displays.
package timestr

// TimeService defines the time string normalization interface.
// Consumers: HTTP API (server/router/api/v1), CLI (cmd/schedtext).
type TimeService interface {
	// ParseTime normalizes raw when format is a 12-hour "g:i...a" layout.
	// Any other format returns raw unchanged, as does input without digits.
	ParseTime(raw string, format string) string

	// ParseTimeDefault is ParseTime with the service's configured display format.
	ParseTimeDefault(raw string) string
}
