package timestr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hrygo/schedtext/internal/errors"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Components
	}{
		{"concatenated", "1233pm", Components{HourRun: "1233", Hint: MeridiemPM}},
		{"am suffix", "944am", Components{HourRun: "944", Hint: MeridiemAM}},
		{"24 hour", "13:00", Components{HourRun: "13", MinuteRun: "00", HasMinute: true}},
		{"dotted meridiem", "1 p.m", Components{HourRun: "1", Hint: MeridiemPM}},
		{"upper case", "10:15 AM", Components{HourRun: "10", MinuteRun: "15", HasMinute: true, Hint: MeridiemAM}},
		{"colon without minutes", "1:pm", Components{HourRun: "1", Hint: MeridiemPM}},
		{"surrounding text", "  at 7:30p sharp ", Components{HourRun: "7", MinuteRun: "30", HasMinute: true, Hint: MeridiemPM}},
		{"bare digits", "12335", Components{HourRun: "12335"}},
		{"out of range minute kept raw", "1:70 pm", Components{HourRun: "1", MinuteRun: "70", HasMinute: true, Hint: MeridiemPM}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_NoDigits(t *testing.T) {
	for _, input := range []string{"", "   ", "noon", "pm"} {
		t.Run(input, func(t *testing.T) {
			_, err := Tokenize(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoDigits))
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeParseFailure))
		})
	}
}
