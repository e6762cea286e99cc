package view

import (
	"strings"
	"time"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/format"
)

type ThumbnailPreviewState struct {
	Enabled bool
	Loading bool
	Raw     string
	Err     string
}

func DetailLines(item feed.Item, watched bool, tags []string, width, horizontalMargin int, now time.Time, preview ThumbnailPreviewState) []string {
	lines := DetailMetaLines(item, watched, tags, width, now)
	lines = appendThumbnailPreview(lines, preview, width)
	return leftPadLines(lines, horizontalMargin)
}

func DetailMetaLines(item feed.Item, watched bool, tags []string, width int, now time.Time) []string {
	lines := make([]string, 0, 16)
	lines = append(lines, WrapText(item.Title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(item.Title)))))
	lines = append(lines, "")

	if item.ChannelTitle != "" {
		lines = append(lines, WrapText("Channel: "+item.ChannelTitle, width)...)
	}
	if len(tags) > 0 {
		lines = append(lines, WrapText("Tags: "+strings.Join(tags, ", "), width)...)
	}
	lines = append(lines, "Published: "+item.PublishedAt.UTC().Format(time.RFC3339)+" ("+format.TimeAgo(now, item.PublishedAt)+")")
	lines = append(lines, "Duration: "+format.Duration(item.DurationSeconds))
	lines = append(lines, "Views: "+format.Comma(item.ViewCount))
	if watched {
		lines = append(lines, "Watched: yes")
	} else {
		lines = append(lines, "Watched: no")
	}
	lines = append(lines, WrapText("URL: "+item.WatchURL(), width)...)
	return lines
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func WrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	out := make([]string, 0, 2)
	line := ""
	for _, word := range words {
		for utf8Len(word) > width {
			if line != "" {
				out = append(out, line)
				line = ""
			}
			runes := []rune(word)
			out = append(out, string(runes[:width]))
			word = string(runes[width:])
		}
		if line == "" {
			line = word
			continue
		}
		if utf8Len(line)+1+utf8Len(word) <= width {
			line += " " + word
			continue
		}
		out = append(out, line)
		line = word
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

func utf8Len(s string) int { return len([]rune(s)) }

func appendThumbnailPreview(lines []string, preview ThumbnailPreviewState, width int) []string {
	if !preview.Enabled {
		return lines
	}
	var previewLines []string
	switch {
	case preview.Loading:
		previewLines = []string{"Loading thumbnail..."}
	case strings.TrimSpace(preview.Raw) != "":
		if ContainsKittyGraphicsEscape(preview.Raw) {
			previewLines = []string{strings.TrimRight(preview.Raw, "\r\n")}
		} else {
			previewLines = centerLines(strings.Split(strings.TrimRight(preview.Raw, "\r\n"), "\n"), width)
		}
	case strings.TrimSpace(preview.Err) != "":
		previewLines = []string{"Thumbnail unavailable: " + strings.TrimSpace(preview.Err)}
	default:
		return lines
	}
	out := append(append([]string(nil), lines...), "")
	return append(out, previewLines...)
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if ContainsKittyGraphicsEscape(line) {
			out[i] = line
			continue
		}
		out[i] = prefix + line
	}
	return out
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		out[i] = strings.Repeat(" ", (width-visible)/2) + line
	}
	return out
}
