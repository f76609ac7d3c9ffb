// Package page extracts information from the HTML pages of the legislature:
// the minutes of a sitting, the page of a voted document and the attendance
// register.
//
// Parsing uses golang.org/x/net/html, which tolerates the malformed markup
// those pages are published with.
package page
