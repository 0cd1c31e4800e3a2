package views

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// cellText prepares backend text for a single table cell: line breaks and
// tabs collapse to one space, other control characters are dropped, and emoji
// modifiers that tcell measures wrongly are removed.
func cellText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '\n' || r == '\r' || r == '\t' || r == ' ':
			space = b.Len() > 0
			continue
		case unicode.IsControl(r), isEmojiModifier(r):
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isEmojiModifier reports skin tones and variation selectors. Zero width
// joiners are kept: Devanagari conjuncts depend on them.
func isEmojiModifier(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}
