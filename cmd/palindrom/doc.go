// Package palindrom provides the command-line interface for the palindrom
// tool. It configures subcommands (scan, corpus, discover, source, tui,
// config), parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/palindrom/palindrom/cmd/palindrom"
//	func main() { palindrom.Execute() }
package palindrom
