// Package scanner finds Hebrew palindromes. Scan is pure and holds no state
// between calls, so it is safe to call from any number of goroutines.
package scanner

import (
	"errors"
	"fmt"

	"github.com/palindrom/palindrom/internal/hebrew"
	"github.com/palindrom/palindrom/internal/types"
)

const (
	DefaultMinLength = 3
	DefaultMaxLength = 50
)

// ErrInvalidArgument is returned for length bounds outside 1 <= min <= max.
var ErrInvalidArgument = errors.New("invalid argument")

// Validate checks the inclusive length bounds.
func Validate(minLength, maxLength int) error {
	if minLength < 1 {
		return fmt.Errorf("%w: min length %d < 1", ErrInvalidArgument, minLength)
	}
	if maxLength < minLength {
		return fmt.Errorf("%w: max length %d < min length %d", ErrInvalidArgument, maxLength, minLength)
	}
	return nil
}

// Scan returns every window of the normalized letter stream of text whose
// length is within [minLength, maxLength] and which is a palindrome.
//
// Results are ordered by length descending, then by start offset ascending.
// Nested and overlapping palindromes are all reported; use Maximal to keep
// only non-overlapping ones.
func Scan(text string, minLength, maxLength int) ([]types.Palindrome, error) {
	if err := Validate(minLength, maxLength); err != nil {
		return nil, err
	}
	stream := hebrew.Normalize(text)
	out := []types.Palindrome{}
	n := stream.Len()
	for l := min(maxLength, n); l >= minLength; l-- {
		for s := 0; s+l <= n; s++ {
			window := stream.Letters[s : s+l]
			if !hebrew.IsPalindrome(window) {
				continue
			}
			start, end := stream.Span(text, s, s+l)
			out = append(out, types.Palindrome{
				Normalized: string(window),
				Original:   text[start:end],
				Length:     l,
				Start:      start,
				End:        end,
			})
		}
	}
	return out, nil
}

// Maximal keeps, in order, each result whose span does not overlap a span
// already kept. Applied to Scan output it yields the longest palindromes first
// and drops everything nested inside or overlapping them.
func Maximal(results []types.Palindrome) []types.Palindrome {
	out := []types.Palindrome{}
	for _, r := range results {
		overlaps := false
		for _, k := range out {
			if r.Start < k.End && k.Start < r.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			out = append(out, r)
		}
	}
	return out
}
