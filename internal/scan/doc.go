// Package scan implements the repository scan command: it discovers git
// repositories under configured roots, compares each checkout with its
// upstream, renders a report, and announces the outcome.
package scan
