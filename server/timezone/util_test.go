package timezone

import (
	"testing"
	"time"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		want    *time.Location
		wantErr bool
	}{
		{
			name: "empty string selects host zone",
			tz:   "",
			want: time.Local,
		},
		{
			name: "Local",
			tz:   "Local",
			want: time.Local,
		},
		{
			name: "UTC",
			tz:   "UTC",
			want: time.UTC,
		},
		{
			name:    "invalid timezone",
			tz:      "Invalid/Timezone",
			want:    time.Local,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if loc != tt.want {
				t.Errorf("ParseTimezone() location = %v, want %v", loc, tt.want)
			}
		})
	}
}

func TestParseTimezone_IANA(t *testing.T) {
	loc, err := ParseTimezone("America/Chicago")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("expected America/Chicago, got %s", loc)
	}
}

func TestIsValidTimezone(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want bool
	}{
		{"UTC", "UTC", true},
		{"empty", "", true},
		{"Local", "Local", true},
		{"invalid", "Invalid/Timezone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTimezone(tt.tz); got != tt.want {
				t.Errorf("IsValidTimezone() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNowInTimezone(t *testing.T) {
	if got := NowInTimezone(nil); got.Location() != time.Local {
		t.Errorf("expected Local, got %v", got.Location())
	}
	if got := NowInTimezone(time.UTC); got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
}

func TestParseTimezone_Abbreviation(t *testing.T) {
	loc, err := ParseTimezone("jst")
	if err != nil {
		t.Fatalf("ParseTimezone(jst) error = %v", err)
	}
	_, offset := time.Date(2012, time.April, 22, 0, 0, 0, 0, loc).Zone()
	if offset != 9*60*60 {
		t.Errorf("JST offset = %d, want %d", offset, 9*60*60)
	}
}
