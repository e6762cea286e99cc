package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/format"
	tuitheme "github.com/glabrego/mytube-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type ItemLineParams struct {
	Item        feed.Item
	Now         time.Time
	Watched     bool
	ShowNumbers bool
	VisiblePos  int
	Active      bool
	Width       int
}

func RenderItemLine(p ItemLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	watchedMarker := " "
	if p.Watched {
		watchedMarker = "✓"
	}

	prefix := fmt.Sprintf(" %s%s ", cursorMarker, watchedMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf(" %s%s%2d. ", cursorMarker, watchedMarker, p.VisiblePos+1)
	}
	meta := ItemMeta(p.Item, p.Now)
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(meta)
	if available < 1 {
		available = 1
	}

	label := truncateRunes(CompactItemLabel(p.Item), available)
	styledTitle := th.StyleItemTitle(p.Watched, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(meta)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+th.MetaValue.Render(meta))
}

// ItemMeta is the right-hand column: duration, views and age.
func ItemMeta(item feed.Item, now time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	return "[" + format.Duration(item.DurationSeconds) + " · " + format.ViewCount(item.ViewCount) + " · " + format.TimeAgo(now, item.PublishedAt) + "]"
}

func CompactItemLabel(item feed.Item) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "(untitled)"
	}
	channel := strings.TrimSpace(item.ChannelTitle)
	if channel == "" {
		return title
	}
	return channel + " | " + title
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
