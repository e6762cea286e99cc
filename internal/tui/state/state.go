package state

import "github.com/glabrego/mytube-cli/internal/feed"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// NextTag cycles through ALL followed by every tag in order. step is +1 or
// -1. A current tag that no longer exists restarts the cycle from ALL.
func NextTag(tags []string, current string, step int) string {
	ring := append([]string{feed.TagAll}, tags...)
	idx := 0
	for i, tag := range ring {
		if tag == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(ring)
	if idx < 0 {
		idx += len(ring)
	}
	return ring[idx]
}

// ValidTag returns current when it is still carried by some channel and ALL
// otherwise.
func ValidTag(tags []string, current string) string {
	for _, tag := range tags {
		if tag == current {
			return current
		}
	}
	return feed.TagAll
}

func ItemIndexByID(items []feed.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// RestoreCursor keeps the selection on anchorID when it is still listed and
// otherwise stays at the same position.
func RestoreCursor(items []feed.Item, anchorID string, fallback int) int {
	if anchorID != "" {
		if idx := ItemIndexByID(items, anchorID); idx >= 0 {
			return idx
		}
	}
	return ClampCursor(fallback, len(items))
}
