package wwdc

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a display timestamp ("3:17", "1:02:45") into
// total seconds. The display string itself is preserved elsewhere for
// output fidelity; this only normalizes the value.
func ParseTimestamp(display string) (int, error) {
	parts := strings.Split(strings.TrimSpace(display), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, Errorf(EINVALID, "invalid timestamp %q", display)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, Errorf(EINVALID, "invalid timestamp %q", display)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatTimestamp renders seconds as a display timestamp: "mm:ss" below
// one hour, "h:mm:ss" above.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
