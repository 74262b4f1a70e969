package session

import (
	"strconv"
	"strings"
)

// ParseSelection parses a space-separated list of 1-based indices. Tokens
// that are not integers are skipped rather than failing the whole line, so
// "1, 3 5x 7" still yields something usable.
func ParseSelection(input string) []int {
	var result []int
	for _, part := range strings.Fields(input) {
		part = strings.Trim(part, ",;")
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		result = append(result, n)
	}
	return result
}
