package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/mytube-cli/internal/feed"
	tuitheme "github.com/glabrego/mytube-cli/internal/tui/theme"
)

func Toolbar(inDetail bool) string {
	if inDetail {
		return "j/k scroll | [ ] prev/next | o open | y copy | m watched | i thumbnail | esc back | ? help"
	}
	return "j/k move | enter details | tab new/watched | t/T tag | s shorts | m watched | o open | r refresh | ? help"
}

func Header(tab feed.Tab, tag string, th tuitheme.Theme) string {
	tagLabel := "all"
	if tag != feed.TagAll {
		tagLabel = "#" + tag
	}
	return th.Title.Render("MyTube") + " " + th.ModePill.Render(tab.String()) + " " + th.TagPill.Render(tagLabel)
}

func CompactFooter(mode string, filterShorts bool, shown, channels int, th tuitheme.Theme) string {
	shorts := "shown"
	if filterShorts {
		shorts = "hidden"
	}
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaLabel.Render("shorts") + " " + th.MetaValue.Render(shorts),
		th.MetaLabel.Render("channels") + " " + th.MetaValue.Render(fmt.Sprintf("%d", channels)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// EmptyMessage is shown in place of the list when nothing survives the
// filters.
func EmptyMessage(tab feed.Tab, hasChannels bool) string {
	if !hasChannels {
		return "No channels yet. Add one with `mytube add <handle, URL or name>`."
	}
	if tab == feed.TabWatched {
		return "No watched videos yet. Press m on a video to mark it as watched."
	}
	return "No new videos to show."
}
