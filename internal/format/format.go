// Package format converts upstream encodings into numbers and renders
// durations, counts and timestamps for display.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var reISODuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts a PT#H#M#S duration into seconds. Missing components
// count as zero and unparseable input yields zero.
func ParseDuration(iso string) int {
	m := reISODuration.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Duration renders seconds as m:ss or h:mm:ss.
func Duration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func ViewCount(count int64) string {
	return compact(count) + " views"
}

func SubCount(count int64) string {
	return compact(count) + " subscribers"
}

func compact(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Comma renders an exact count with thousands separators.
func Comma(n int64) string {
	return humanize.Comma(n)
}

// TimeAgo renders the age of then relative to now in short units.
func TimeAgo(now, then time.Time) string {
	if then.IsZero() {
		return "unknown"
	}
	sec := int64(now.Sub(then) / time.Second)
	switch {
	case sec < 60:
		return "just now"
	case sec < 3600:
		return fmt.Sprintf("%dm ago", sec/60)
	case sec < 86400:
		return fmt.Sprintf("%dh ago", sec/3600)
	case sec < 2592000:
		return fmt.Sprintf("%dd ago", sec/86400)
	case sec < 31536000:
		return fmt.Sprintf("%dmo ago", sec/2592000)
	default:
		return fmt.Sprintf("%dy ago", sec/31536000)
	}
}
