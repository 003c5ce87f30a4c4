package drugapi

import (
	"regexp"
	"strings"
)

// Dosage-frequency and packaging fragments stripped from drug names for
// display, e.g. "ACETAMINOPHEN 24 HR {500 (EXTENDED)}".
var nameNoise = regexp.MustCompile(`24 HR |12 HR |\{[0-9]+ \(|\}`)

var spaces = regexp.MustCompile(`\s+`)

// NormalizeName strips the known noise fragments from a raw drug name.
func NormalizeName(name string) string {
	return nameNoise.ReplaceAllString(name, "")
}

// DisplayImprint converts an upstream imprint code to its display form,
// replacing the semicolon token separators with spaces.
func DisplayImprint(imprint string) string {
	return strings.ReplaceAll(imprint, ";", " ")
}

// QueryImprint converts a user-entered imprint term to the upstream query
// form, joining whitespace-separated tokens with semicolons.
func QueryImprint(imprint string) string {
	return spaces.ReplaceAllString(imprint, ";")
}
