// Package hebrew maps English QWERTY keys to the Hebrew layout.
package hebrew

import "unicode"

// Standard Israeli keyboard layout, lowercase QWERTY position to letter.
var keyboardMap = map[rune]rune{
	'q': '/', 'w': '\'', 'e': 'ק', 'r': 'ר', 't': 'א', 'y': 'ט', 'u': 'ו', 'i': 'ן', 'o': 'ם', 'p': 'פ',
	'a': 'ש', 's': 'ד', 'd': 'ג', 'f': 'כ', 'g': 'ע', 'h': 'י', 'j': 'ח', 'k': 'ל', 'l': 'ך', ';': 'ף',
	'\'': ',', 'z': 'ז', 'x': 'ס', 'c': 'ב', 'v': 'ה', 'b': 'נ', 'n': 'מ', 'm': 'צ', ',': 'ת', '.': 'ץ',
	'/': '.',
}

// MapKey converts an English keyboard rune to its Hebrew letter; runes
// without a mapping (including Hebrew input itself) pass through unchanged.
func MapKey(r rune) rune {
	if mapped, ok := keyboardMap[unicode.ToLower(r)]; ok {
		return mapped
	}
	return r
}
