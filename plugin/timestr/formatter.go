package timestr

import (
	"strconv"
	"strings"
)

// FormatSpec is a PHP-style time layout such as "g:ia" or "H:i". Only its
// shape matters here: it decides whether 12-hour normalization applies and
// whether a space precedes the meridiem.
type FormatSpec string

// IsTwelveHour reports whether the layout starts with "g:i" and ends in "a",
// ignoring case.
func (f FormatSpec) IsTwelveHour() bool {
	s := strings.ToLower(string(f))
	return strings.HasPrefix(s, "g:i") && strings.HasSuffix(s, "a")
}

// SpaceBeforeMeridiem reports whether the second-to-last character is a space.
func (f FormatSpec) SpaceBeforeMeridiem() bool {
	s := string(f)
	return len(s) >= 2 && s[len(s)-2] == ' '
}

// Format renders c as "{hour}:{minute}{space}{meridiem}".
func Format(c Clock, layout FormatSpec) string {
	var b strings.Builder
	b.Grow(8)
	b.WriteString(strconv.Itoa(c.Hour))
	b.WriteByte(':')
	b.WriteString(c.Minute)
	if layout.SpaceBeforeMeridiem() {
		b.WriteByte(' ')
	}
	b.WriteString(string(c.Meridiem))
	return b.String()
}
