package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts a Brazilian-formatted currency string to a float.
// "R$ 1.234,56" and "1.234,56" become 1234.56, "1,50" becomes 1.5, and
// plain "1234.56" passes through unchanged.
func ParseAmount(value string) (float64, error) {
	s := strings.ReplaceAll(value, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// Dot is the thousands separator, comma the decimal mark.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return amount, nil
}
