package command

import (
	"strings"

	"golang.org/x/text/width"
)

var symbolReplacer = strings.NewReplacer(
	"×", "x",
	"✕", "x",
	"÷", "/",
)

// Normalize folds full-width digits, letters and punctuation to ASCII.
// CJK text is left untouched.
func Normalize(s string) string {
	return symbolReplacer.Replace(width.Fold.String(s))
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
