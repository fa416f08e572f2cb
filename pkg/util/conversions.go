package util

import (
	"fmt"
	"strconv"
)

// StringToUint64 converts string to uint64
func StringToUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse uint64: %w", err)
	}
	return n, nil
}

// ParseSnowflake parses a platform identifier, returning 0 for empty or
// malformed input.
func ParseSnowflake(s string) uint64 {
	if s == "" {
		return 0
	}
	n, err := StringToUint64(s)
	if err != nil {
		return 0
	}
	return n
}
