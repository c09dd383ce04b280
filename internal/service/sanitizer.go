package service

import (
	"strings"
	"unicode"
)

const maxTextLength = 255

// accentFold maps the accented Latin letters that show up in payroll exports
// to their unaccented ASCII equivalents.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ñ': 'n', 'ç': 'c',
	'Á': 'A', 'À': 'A', 'Â': 'A', 'Ä': 'A', 'Ã': 'A',
	'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
	'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
	'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Ö': 'O', 'Õ': 'O',
	'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
	'Ñ': 'N', 'Ç': 'C',
}

// punctuationFold normalizes the typographic punctuation Excel likes to
// insert into free text.
var punctuationFold = map[rune]string{
	'‘': "'", '’': "'",
	'“': `"`, '”': `"`,
	'–': "-", '—': "-",
	'…': "...",
}

// CleanText normalizes a free-text cell before persistence: control characters
// and BOMs are stripped, accented letters are folded to ASCII, typographic
// punctuation is replaced, the result is trimmed and capped at 255 characters.
// It never fails; characters with no ASCII mapping degrade to '?'.
func CleanText(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r == '\uFEFF':
			// byte-order mark
		case unicode.IsControl(r):
		default:
			if folded, ok := accentFold[r]; ok {
				b.WriteRune(folded)
			} else if folded, ok := punctuationFold[r]; ok {
				b.WriteString(folded)
			} else if r > unicode.MaxASCII {
				b.WriteRune('?')
			} else {
				b.WriteRune(r)
			}
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if len(cleaned) > maxTextLength {
		cleaned = cleaned[:maxTextLength]
	}
	return cleaned
}

// CleanIdentifier normalizes a document/account/record number cell. Whitespace
// and control characters are removed; the result is an opaque identifier, so
// numeric-only content is not enforced. An empty result means the value is
// absent and should be stored as NULL.
func CleanIdentifier(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r == '\uFEFF' || unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
