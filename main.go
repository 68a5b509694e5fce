package main

import "github.com/palindrom/palindrom/cmd/palindrom"

func main() { palindrom.Execute() }
