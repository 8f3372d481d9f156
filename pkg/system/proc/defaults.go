package proc

import (
	"os"
	"strconv"
)

const (
	DefaultRoot      = "/proc"
	DefaultOSRelease = "/etc/os-release"
	DefaultPasswd    = "/etc/passwd"

	// UnknownUser is returned by User when a uid cannot be resolved.
	UnknownUser = "DEFAULT"
)

// ClockTicks returns the number of jiffies (clock ticks) per second.
// It first checks the env var CLK_TCK (useful for testing), otherwise
// falls back to 100 (common default).
//
// Note: On real systems, the authoritative way is `sysconf(_SC_CLK_TCK)`,
// but calling that requires cgo.
func ClockTicks() int64 {
	v, _ := strconv.ParseInt(os.Getenv("CLK_TCK"), 10, 64)
	if v > 0 {
		return v
	}
	return 100
}
