// Package version provides semantic version normalization and comparison
// for connector release checks.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize validates v and returns it without a leading "v".
// Accepted forms are vX.Y.Z and X.Y.Z.
func Normalize(v string) (string, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", fmt.Errorf("version is required")
	}
	stripped := strings.TrimPrefix(trimmed, "v")
	if _, err := parse(stripped); err != nil {
		return "", fmt.Errorf("version %q must be in the form vX.Y.Z or X.Y.Z", v)
	}
	return stripped, nil
}

// Compare returns -1, 0, or 1 depending on whether a is older than, equal to,
// or newer than b. Both versions must be normalized.
func Compare(a string, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := parse(b)
	if err != nil {
		return 0, err
	}
	for i := range av {
		switch {
		case av[i] < bv[i]:
			return -1, nil
		case av[i] > bv[i]:
			return 1, nil
		}
	}
	return 0, nil
}

// Highest returns the newest version in versions, skipping entries that do not
// parse. It returns "" when no entry is a valid version.
func Highest(versions []string) string {
	best := ""
	for _, v := range versions {
		normalized, err := Normalize(v)
		if err != nil {
			continue
		}
		if best == "" {
			best = normalized
			continue
		}
		cmp, err := Compare(normalized, best)
		if err == nil && cmp > 0 {
			best = normalized
		}
	}
	return best
}

func parse(v string) ([3]int, error) {
	var parts [3]int
	fields := strings.Split(v, ".")
	if len(fields) != 3 {
		return parts, fmt.Errorf("expected three version components, got %d", len(fields))
	}
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 || (len(field) > 1 && strings.HasPrefix(field, "0")) {
			return parts, fmt.Errorf("invalid version component %q", field)
		}
		parts[i] = n
	}
	return parts, nil
}
