package prettytime

import (
	"strconv"
	"strings"
	"time"

	"github.com/hrygo/schedtext/plugin/locale"
)

// FormatPHP renders t using PHP date() layout letters, the same layout
// language as the configured display formats ("D, M jS g:ia").
//
// Supported: d D j l N S w F M m n Y y a A g G h H i s. A backslash
// emits the next character literally; any other character is copied.
func FormatPHP(t time.Time, layout string, names locale.TimeStrings) string {
	var b strings.Builder
	b.Grow(len(layout) * 2)

	escaped := false
	for _, r := range layout {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case 'd':
			b.WriteString(pad2(t.Day()))
		case 'D':
			b.WriteString(abbrev(names.Days[t.Weekday()]))
		case 'j':
			b.WriteString(strconv.Itoa(t.Day()))
		case 'l':
			b.WriteString(names.Days[t.Weekday()])
		case 'N':
			wd := int(t.Weekday())
			if wd == 0 {
				wd = 7
			}
			b.WriteString(strconv.Itoa(wd))
		case 'S':
			b.WriteString(ordinalSuffix(t.Day()))
		case 'w':
			b.WriteString(strconv.Itoa(int(t.Weekday())))
		case 'F':
			b.WriteString(names.Months[t.Month()-1])
		case 'M':
			b.WriteString(abbrev(names.Months[t.Month()-1]))
		case 'm':
			b.WriteString(pad2(int(t.Month())))
		case 'n':
			b.WriteString(strconv.Itoa(int(t.Month())))
		case 'Y':
			b.WriteString(strconv.Itoa(t.Year()))
		case 'y':
			b.WriteString(pad2(t.Year() % 100))
		case 'a':
			b.WriteString(meridiem(t))
		case 'A':
			b.WriteString(strings.ToUpper(meridiem(t)))
		case 'g':
			b.WriteString(strconv.Itoa(hour12(t)))
		case 'G':
			b.WriteString(strconv.Itoa(t.Hour()))
		case 'h':
			b.WriteString(pad2(hour12(t)))
		case 'H':
			b.WriteString(pad2(t.Hour()))
		case 'i':
			b.WriteString(pad2(t.Minute()))
		case 's':
			b.WriteString(pad2(t.Second()))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pad2(n int) string {
	if n < 10 && n >= 0 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func abbrev(name string) string {
	r := []rune(name)
	if len(r) <= 3 {
		return name
	}
	return string(r[:3])
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		return 12
	}
	return h
}

func meridiem(t time.Time) string {
	if t.Hour() < 12 {
		return "am"
	}
	return "pm"
}

// ordinalSuffix is English-only, as in PHP.
func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
