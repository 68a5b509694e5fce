package core

import (
	"context"

	"github.com/palindrom/palindrom/internal/engine"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/palindrom/palindrom/internal/types"
)

// Re-exported types. These are aliases so values flow between the facade and
// internal packages without conversion.
type (
	Palindrome   = types.Palindrome
	Match        = types.Match
	CorpusConfig = engine.Config
	CorpusResult = engine.Result
)

const (
	DefaultMinLength = scanner.DefaultMinLength
	DefaultMaxLength = scanner.DefaultMaxLength
)

// ErrInvalidArgument is returned for bounds outside 1 <= min <= max.
var ErrInvalidArgument = scanner.ErrInvalidArgument

// Find returns every Hebrew palindrome in text with a letter count in
// [minLength, maxLength], longest first, then by position.
func Find(text string, minLength, maxLength int) ([]Palindrome, error) {
	return scanner.Scan(text, minLength, maxLength)
}

// FindMaximal is Find followed by removal of every result overlapping a longer
// or earlier one.
func FindMaximal(text string, minLength, maxLength int) ([]Palindrome, error) {
	res, err := scanner.Scan(text, minLength, maxLength)
	if err != nil {
		return nil, err
	}
	return scanner.Maximal(res), nil
}

// ScanCorpus scans a directory tree. See engine.Config for the knobs.
func ScanCorpus(ctx context.Context, cfg CorpusConfig) (CorpusResult, error) {
	return engine.ScanWithStats(ctx, cfg)
}
