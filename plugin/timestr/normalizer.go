package timestr

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Clock is a canonical 12-hour time. Hour is always 1..12 and Minute is
// always two digits.
type Clock struct {
	Hour     int
	Minute   string
	Meridiem Meridiem
}

// Normalizer resolves tokenized components into a Clock.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer that reports anomalies to logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize never fails: unusable fields fall back to 12 for the hour and
// "00" for the minute.
func (n *Normalizer) Normalize(c Components) Clock {
	hourRun, minuteRun, hasMinute := c.HourRun, c.MinuteRun, c.HasMinute

	// "1233" carries its minute in the last two digits.
	if len(hourRun) > 2 && !hasMinute {
		minuteRun = hourRun[len(hourRun)-2:]
		hourRun = hourRun[:len(hourRun)-2]
		hasMinute = true
	}

	minute := n.normalizeMinute(minuteRun, hasMinute)

	hour, err := strconv.Atoi(hourRun)
	if err != nil {
		hour = 12
	}

	meridiem := c.Hint
	switch {
	case hour > 12:
		// 24-hour input: anything past noon is pm unless the text says otherwise.
		hour %= 12
		if hour == 0 {
			hour = 12
		}
		if meridiem == MeridiemNone {
			meridiem = MeridiemPM
		}
	case hour == 0:
		hour = 12
		if meridiem == MeridiemNone {
			meridiem = MeridiemAM
		}
	case meridiem != MeridiemNone:
	default:
		meridiem = guessMeridiem(hour)
	}

	if len(minute) != 2 {
		n.logger.Warn("normalized minute is not two digits",
			slog.String("minute", minute),
			slog.String("hour_run", c.HourRun),
		)
	}

	return Clock{Hour: hour, Minute: minute, Meridiem: meridiem}
}

func (n *Normalizer) normalizeMinute(run string, present bool) string {
	if !present {
		return "00"
	}
	m, err := strconv.Atoi(run)
	if err != nil || m < 0 || m > 59 {
		n.logger.Warn("minute clamped", slog.String("minute", run))
		return "00"
	}
	return fmt.Sprintf("%02d", m)
}

// guessMeridiem picks am for 7..11 and pm for everything else. Schedules
// rarely start before 7 in the morning, so a bare "3" means 3 in the
// afternoon. This is a display heuristic, not calendar truth.
func guessMeridiem(hour int) Meridiem {
	if hour > 6 && hour < 12 {
		return MeridiemAM
	}
	return MeridiemPM
}
