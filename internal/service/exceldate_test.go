package service

import "testing"

func TestExcelSerialToDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"serial 2 is jan 1 1900", "2", "1900-01-01", true},
		{"serial 3 is jan 2 1900", "3", "1900-01-02", true},
		{"known modern date", "45292", "2024-01-01", true},
		{"fractional part ignored", "45292.75", "2024-01-01", true},
		{"whitespace tolerated", " 45292 ", "2024-01-01", true},
		{"empty not a date", "", "", false},
		{"blank not a date", "   ", "", false},
		{"text not a date", "15/03/2020", "", false},
		{"iso text not a date", "2020-03-15", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExcelSerialToDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExcelSerialToDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExcelSerialToDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExcelSerialToDateLegacyDisagreesOnEarlySerials(t *testing.T) {
	// The two correction rules must agree after the phantom 1900 leap day and
	// disagree before it.
	modern, _ := ExcelSerialToDate("45292")
	legacy, _ := ExcelSerialToDateLegacy("45292")
	if modern != legacy {
		t.Errorf("rules disagree on serial 45292: %q vs %q", modern, legacy)
	}

	modern, _ = ExcelSerialToDate("2")
	legacy, _ = ExcelSerialToDateLegacy("2")
	if modern == legacy {
		t.Errorf("rules should disagree on serial 2, both returned %q", modern)
	}
	if legacy != "1900-01-02" {
		t.Errorf("legacy rule for serial 2 = %q, want 1900-01-02", legacy)
	}
}
