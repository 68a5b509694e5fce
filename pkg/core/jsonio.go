package core

import (
	"encoding/json"
	"io"

	"github.com/palindrom/palindrom/internal/report"
)

// MarshalPalindromes pretty-prints results as JSON for humans or pipelines.
func MarshalPalindromes(w io.Writer, ps []Palindrome) error {
	return report.WriteJSON(w, ps)
}

// UnmarshalPalindromes decodes results JSON, useful for ingestion tests.
func UnmarshalPalindromes(r io.Reader) ([]Palindrome, error) {
	var ps []Palindrome
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, err
	}
	return ps, nil
}
