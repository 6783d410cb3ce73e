// Package names normalizes free-form labels into policy display names.
package names

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize maps label into the character set the policy service accepts for
// display names: letters, digits, commas, periods, and single spaces. Hyphens
// become spaces, every other disallowed rune is stripped, whitespace runs
// collapse to one space, and the ends are trimmed.
func Normalize(label string) (string, error) {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r == '-':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ',' || r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	normalized := strings.Join(strings.Fields(b.String()), " ")
	if normalized == "" {
		return "", fmt.Errorf("policy name must not be empty")
	}
	return normalized, nil
}
