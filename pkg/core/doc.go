// Package core provides a small, stable facade over palindrom's internal
// scanner and corpus engine for external integrations. It re-exports a narrow
// API surface so other programs can depend on a stable import path without
// importing internal packages.
//
// Example:
//
//	results, err := core.Find("הבא נא אבא", core.DefaultMinLength, core.DefaultMaxLength)
//	if err != nil { /* handle */ }
//	_ = core.MarshalPalindromes(os.Stdout, results)
package core
