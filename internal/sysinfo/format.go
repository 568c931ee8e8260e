package sysinfo

import (
	"fmt"
	"time"
)

// ReadableSize renders bytes as the largest fitting unit, two decimals.
func ReadableSize(n uint64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f%s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2fPB", size)
}

// ReadableDuration renders an uptime as "2d 3h 4m 5s", dropping leading
// zero units.
func ReadableDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd ", days)
	}
	if hours > 0 || out != "" {
		out += fmt.Sprintf("%dh ", hours)
	}
	if minutes > 0 || out != "" {
		out += fmt.Sprintf("%dm ", minutes)
	}
	out += fmt.Sprintf("%ds", seconds)
	return out
}
