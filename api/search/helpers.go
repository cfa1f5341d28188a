package search

import (
	"fmt"
	"strconv"
)

// parsePositiveInt parses a query string value that must be a positive
// integer.
func parsePositiveInt(raw string) (int, error) {
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if parsed < 1 {
		return 0, fmt.Errorf("value must be positive, got %d", parsed)
	}
	return parsed, nil
}
