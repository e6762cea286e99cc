package feed

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ParseTags splits comma-separated user input into normalized, unique tags,
// keeping first-seen order.
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

func NormalizeTags(tags []string) []string {
	cleaned := lo.Map(tags, func(t string, _ int) string { return NormalizeTag(t) })
	return lo.Uniq(lo.Compact(cleaned))
}

// AllTags returns every tag used by any channel, sorted.
func AllTags(channels []Channel) []string {
	var all []string
	for _, ch := range channels {
		all = append(all, ch.Tags...)
	}
	out := lo.Uniq(all)
	sort.Strings(out)
	return out
}

// ChannelIDsByTag returns the IDs of channels carrying tag.
func ChannelIDsByTag(channels []Channel, tag string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, ch := range channels {
		if ch.HasTag(tag) {
			ids[ch.ID] = struct{}{}
		}
	}
	return ids
}
