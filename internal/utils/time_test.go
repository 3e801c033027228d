package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
		wantName string
	}{
		{name: "empty is local", timezone: "", wantName: "Local"},
		{name: "Local keyword", timezone: "Local", wantName: "Local"},
		{name: "UTC", timezone: "UTC", wantName: "UTC"},
		{name: "IANA name", timezone: "America/New_York", wantName: "America/New_York"},
		{name: "invalid", timezone: "Mars/Olympus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if tt.wantErr {
				if err == nil {
					t.Errorf("LoadLocation(%q) expected error, got nil", tt.timezone)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadLocation(%q) unexpected error: %v", tt.timezone, err)
			}
			if loc.String() != tt.wantName {
				t.Errorf("LoadLocation(%q) = %s, want %s", tt.timezone, loc, tt.wantName)
			}
		})
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	today, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("GetTodayInTimezone(UTC) unexpected error: %v", err)
	}
	if !ValidateDateFormat(today) {
		t.Errorf("GetTodayInTimezone(UTC) = %q, not a YYYY-MM-DD date", today)
	}
	want := time.Now().UTC().Format("2006-01-02")
	// Tolerate a midnight rollover between the two calls
	if today != want && today != time.Now().UTC().Add(-time.Minute).Format("2006-01-02") {
		t.Errorf("GetTodayInTimezone(UTC) = %q, want %q", today, want)
	}

	if _, err := GetTodayInTimezone("Not/AZone"); err == nil {
		t.Error("GetTodayInTimezone with invalid zone expected error, got nil")
	}
}

func TestValidateDateFormat(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-1-01", false},
		{"2024/01/01", false},
		{"", false},
		{"2024-01-01T00:00:00Z", false},
	}

	for _, tt := range tests {
		if got := ValidateDateFormat(tt.input); got != tt.want {
			t.Errorf("ValidateDateFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	if got := FormatDisplayDate("2024-03-05"); got != "Mar 5, 2024" {
		t.Errorf("FormatDisplayDate() = %q, want %q", got, "Mar 5, 2024")
	}
	if got := FormatDisplayDate("garbage"); got != "garbage" {
		t.Errorf("FormatDisplayDate(garbage) = %q, want input unchanged", got)
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"", "Local", "UTC", "Europe/London"} {
		if !ValidateTimezone(tz) {
			t.Errorf("ValidateTimezone(%q) = false, want true", tz)
		}
	}
	if ValidateTimezone("Nowhere/Special") {
		t.Error("ValidateTimezone(Nowhere/Special) = true, want false")
	}
}
