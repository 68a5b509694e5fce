package hebrew

import (
	"strings"
	"unicode/utf8"
)

const (
	firstLetter = 'א' // U+05D0
	lastLetter  = 'ת' // U+05EA
)

var finals = map[rune]rune{
	'ך': 'כ',
	'ם': 'מ',
	'ן': 'נ',
	'ף': 'פ',
	'ץ': 'צ',
}

// IsLetter reports whether r is a Hebrew consonant, final forms included.
func IsLetter(r rune) bool {
	return r >= firstLetter && r <= lastLetter
}

// IsFinal reports whether r is one of the five end-of-word glyphs.
func IsFinal(r rune) bool {
	_, ok := finals[r]
	return ok
}

// Fold maps a final form to its standard letter. Any other rune is returned
// unchanged, so Fold(Fold(r)) == Fold(r).
func Fold(r rune) rune {
	if std, ok := finals[r]; ok {
		return std
	}
	return r
}

// Stream is the letters-only, folded projection of a text.
// Positions[i] is the byte offset in the source text of Letters[i].
type Stream struct {
	Letters   []rune
	Positions []int
}

// Len returns the number of letters in the stream.
func (s Stream) Len() int { return len(s.Letters) }

// String returns the folded letters as a string.
func (s Stream) String() string { return string(s.Letters) }

// Span returns the byte range [start, end) of the source text covered by the
// letters s.Letters[from:to]. The range includes every non-letter rune between
// the first and last letter.
func (s Stream) Span(text string, from, to int) (int, int) {
	start := s.Positions[from]
	last := s.Positions[to-1]
	_, size := utf8.DecodeRuneInString(text[last:])
	return start, last + size
}

// Normalize builds the stream and its position map in one pass over text.
func Normalize(text string) Stream {
	var s Stream
	for i, r := range text {
		if !IsLetter(r) {
			continue
		}
		s.Letters = append(s.Letters, Fold(r))
		s.Positions = append(s.Positions, i)
	}
	return s
}

// NormalizeString returns only the folded letters of text.
func NormalizeString(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if IsLetter(r) {
			b.WriteRune(Fold(r))
		}
	}
	return b.String()
}

// IsPalindrome reports whether rs reads the same forwards and backwards.
func IsPalindrome(rs []rune) bool {
	n := len(rs)
	for i := 0; i < n/2; i++ {
		if rs[i] != rs[n-1-i] {
			return false
		}
	}
	return true
}
