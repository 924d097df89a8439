package timestr

import (
	"regexp"
	"strings"

	apperrors "github.com/hrygo/schedtext/internal/errors"
)

// Meridiem is the am/pm designator of a 12-hour clock value.
type Meridiem string

const (
	MeridiemNone Meridiem = ""
	MeridiemAM   Meridiem = "am"
	MeridiemPM   Meridiem = "pm"
)

// ErrNoDigits is returned by Tokenize when the input holds no digit run.
var ErrNoDigits = apperrors.New(apperrors.ErrCodeParseFailure, "no digits in time string")

// timePattern matches the first digit run, an optional ":MM" block and an
// optional a/p letter; "p.m.", "pm" and "P" all yield the same hint.
var timePattern = regexp.MustCompile(`(?i)(\d+)(?::(\d{2}))?[\s.:]*([ap])?`)

// Components are the raw tokens of a time string before interpretation.
// HourRun may still hold hour and minute concatenated ("1233").
type Components struct {
	HourRun   string
	MinuteRun string
	HasMinute bool
	Hint      Meridiem
}

// Tokenize splits raw into digit runs and a meridiem hint. It never
// interprets the digits.
func Tokenize(raw string) (Components, error) {
	raw = strings.TrimSpace(raw)
	matches := timePattern.FindStringSubmatch(raw)
	if len(matches) != 4 || matches[1] == "" {
		return Components{}, apperrors.Wrap(ErrNoDigits, apperrors.ErrCodeParseFailure, "tokenize time").
			WithContext("input", raw)
	}

	c := Components{
		HourRun:   matches[1],
		MinuteRun: matches[2],
		HasMinute: matches[2] != "",
	}
	switch strings.ToLower(matches[3]) {
	case "p":
		c.Hint = MeridiemPM
	case "a":
		c.Hint = MeridiemAM
	}
	return c, nil
}
