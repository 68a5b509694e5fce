// Package config loads palindrom configuration from local and global YAML files
// with precedence rules. It is internal; CLI code maps flags and files into
// scanner, engine and oracle settings.
package config
