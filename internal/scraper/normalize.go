package scraper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText NFC-normalizes raw page text and collapses the whitespace runs
// LinkedIn markup tends to leave behind. Returns "" for whitespace-only input.
func CleanText(raw string) string {
	s := norm.NFC.String(raw)
	return strings.Join(strings.Fields(s), " ")
}
