package discord

import (
	"strconv"
	"time"
)

// The platform's snowflake epoch, milliseconds since the Unix epoch.
const snowflakeEpochMillis = 1420070400000

// timeToSnowflake converts a point in time to the smallest snowflake id a
// message created at that time could have. Used for before-timestamp history
// cutoffs.
func timeToSnowflake(t time.Time) uint64 {
	millis := t.UnixMilli() - snowflakeEpochMillis
	if millis < 0 {
		millis = 0
	}
	return uint64(millis) << 22
}

// snowflakeTime extracts the creation time embedded in a snowflake id.
func snowflakeTime(id uint64) time.Time {
	millis := int64(id>>22) + snowflakeEpochMillis
	return time.UnixMilli(millis).UTC()
}

func parseSnowflake(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func formatSnowflake(id uint64) string {
	return strconv.FormatUint(id, 10)
}
