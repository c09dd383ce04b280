package service

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii unchanged", "Perez, Juan", "Perez, Juan"},
		{"accents folded", "Gómez Núñez, María José", "Gomez Nunez, Maria Jose"},
		{"uppercase accents folded", "ÁLVAREZ, ÓSCAR", "ALVAREZ, OSCAR"},
		{"enie folded", "Ñandú", "Nandu"},
		{"typographic quotes replaced", "dijo “hola” y ‘chau’", `dijo "hola" y 'chau'`},
		{"dashes and ellipsis replaced", "a – b — c…", "a - b - c..."},
		{"unmapped runes degrade", "雇用主", "???"},
		{"bom and controls stripped", "\uFEFFGarcía\x00\x1f, Ana", "Garcia, Ana"},
		{"surrounding whitespace trimmed", "  López  ", "Lopez"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{"Perez, Juan", "Gómez, María", "a – b…", "  spaced  "}
	for _, input := range inputs {
		once := CleanText(input)
		if twice := CleanText(once); twice != once {
			t.Errorf("CleanText not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestCleanTextTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := CleanText(long)
	if len(got) != 255 {
		t.Errorf("CleanText of 300 chars returned %d chars, want 255", len(got))
	}

	short := strings.Repeat("b", 255)
	if got := CleanText(short); got != short {
		t.Errorf("CleanText altered a 255-char string")
	}
}

func TestCleanIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"digits unchanged", "20304050607", "20304050607"},
		{"internal spaces removed", "20 30405060 7", "20304050607"},
		{"tabs and newlines removed", "123\t456\n789", "123456789"},
		{"bom removed", "\uFEFF1234", "1234"},
		{"dashes kept", "20-30405060-7", "20-30405060-7"},
		{"only whitespace becomes empty", "   \t ", ""},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanIdentifier(tt.input); got != tt.want {
				t.Errorf("CleanIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
