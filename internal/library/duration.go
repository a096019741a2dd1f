package library

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClockDuration converts a "minutes:seconds" display string to whole
// seconds. Only exactly two colon-separated integer components are accepted;
// anything else ("1:02:03", "Live", "N/A", "") reports ok=false so callers
// can skip the aggregate update without raising.
func parseClockDuration(s string) (seconds int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	sec, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return m*60 + sec, true
}

// formatClock renders a second count as zero-padded "HH:MM:SS".
func formatClock(total int) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
