package features

import "unicode"

// Classifier maps a character to its intrinsic features.
type Classifier func(r rune) Set

// Classify is the default Classifier. Letters are Alpha, characters with a
// numeric category are Numeric, whitespace (including the ASCII separator
// controls) is Space, and every other visible character is a Symbol.
// Control and format characters carry no features.
func Classify(r rune) Set {
	var s Set
	alpha := unicode.IsLetter(r)
	num := unicode.IsNumber(r)
	space := isSpace(r)
	if alpha {
		s = s.With(Alpha)
	}
	if num {
		s = s.With(Numeric)
	}
	if alpha || num {
		s = s.With(AlphaNumeric)
	}
	if unicode.IsLower(r) || unicode.Is(unicode.Other_Lowercase, r) {
		s = s.With(Lower)
	}
	if unicode.IsUpper(r) || unicode.Is(unicode.Other_Uppercase, r) {
		s = s.With(Upper)
	}
	if space {
		s = s.With(Space)
	}
	if !alpha && !num && !space && !unicode.In(r, unicode.Cc, unicode.Cf) {
		s = s.With(Symbol)
	}

	switch r {
	case '@':
		s = s.With(TwitterSpecial).With(At)
	case '#':
		s = s.With(TwitterSpecial).With(Hash)
	case ':':
		s = s.With(Colon)
	case '/':
		s = s.With(Slash)
	case '.':
		s = s.With(Period)
	case '\'', '’':
		s = s.With(Apostrophe)
	}

	if r > unicode.MaxASCII {
		s |= classifyEmoji(r)
	}
	return s
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// classifyEmoji looks up the emoji properties. ASCII keycap bases (digits,
// '#' and '*') only form emoji together with U+20E3 and are left out.
func classifyEmoji(r rune) Set {
	var s Set
	if unicode.Is(emojiTable, r) {
		s = s.With(Emoji)
	}
	if unicode.Is(emojiPresentationTable, r) {
		s = s.With(EmojiPresentation)
	}
	if unicode.Is(emojiModifierBaseTable, r) {
		s = s.With(EmojiModifierBase)
	}
	if unicode.Is(emojiComponentTable, r) {
		s = s.With(EmojiComponent)
	}
	if unicode.Is(extendedPictographicTable, r) {
		s = s.With(ExtendedPictographic)
	}
	return s
}
