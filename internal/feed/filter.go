package feed

import "github.com/samber/lo"

// ShortsThresholdSeconds is the minimum duration an item needs to survive the
// shorts filter.
const ShortsThresholdSeconds = 300

type Tab int

const (
	TabNew Tab = iota
	TabWatched
)

func (t Tab) String() string {
	if t == TabWatched {
		return "watched"
	}
	return "new"
}

func ParseTab(s string) (Tab, bool) {
	switch s {
	case "new", "":
		return TabNew, true
	case "watched":
		return TabWatched, true
	}
	return TabNew, false
}

// TagAll disables the tag filter.
const TagAll = ""

// View is the transient selection the feed is rendered through.
type View struct {
	Tab          Tab
	Tag          string
	FilterShorts bool
}

// ApplyFilters narrows items to what view selects. Stages run in a fixed order:
// shorts, tag, tab. Input order is preserved.
func ApplyFilters(items []Item, view View, channels []Channel, watched IDSet) []Item {
	out := items
	if view.FilterShorts {
		out = lo.Filter(out, func(it Item, _ int) bool {
			return it.DurationSeconds >= ShortsThresholdSeconds
		})
	}
	if view.Tag != TagAll {
		allowed := ChannelIDsByTag(channels, view.Tag)
		out = lo.Filter(out, func(it Item, _ int) bool {
			_, ok := allowed[it.ChannelID]
			return ok
		})
	}
	wantWatched := view.Tab == TabWatched
	return lo.Filter(out, func(it Item, _ int) bool {
		return watched.Has(it.ID) == wantWatched
	})
}
