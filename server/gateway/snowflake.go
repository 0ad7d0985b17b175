package gateway

import "strconv"

// parseID decodes a snowflake id; 0 when absent or malformed.
func parseID(s string) uint64 {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
