// Package engine runs the palindrome scanner over a tree of text files.
//
// Files are selected with include/exclude globs, a .palindromignore file and
// a built-in exclude list, then scanned concurrently. Each file is scanned as
// one text or, with PerLine, verse by verse. Output order does not depend on
// scheduling: matches are sorted by path and keep scanner order inside a file.
package engine
