// Package main provides the entry point for the quivotequoi CLI.
//
// quivotequoi extracts the votes of the European Parliament plenary from the
// published minutes and roll-call annexes, and the amendments tabled on the
// voted documents.
//
// Usage:
//
//	quivotequoi votes --calendar
//	quivotequoi votes 2024-09-17 2024-09-18
//	quivotequoi docs
//
// See --help for all available options.
package main

func main() {
	Execute()
}
