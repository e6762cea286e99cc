package feed

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const maxParallelFetches = 8

// FetchFunc retrieves the normalized items of one channel.
type FetchFunc func(ctx context.Context, ch Channel) ([]Item, error)

// FetchResult is the outcome of one per-channel fetch.
type FetchResult struct {
	ChannelID string
	Items     []Item
	Err       error
}

// Aggregate fetches every channel concurrently and merges the results newest
// first. A failing channel contributes nothing; it never fails the aggregate.
func Aggregate(ctx context.Context, channels []Channel, fetch FetchFunc, logger zerolog.Logger) []Item {
	results := make([]FetchResult, len(channels))

	var g errgroup.Group
	g.SetLimit(maxParallelFetches)
	for i, ch := range channels {
		g.Go(func() error {
			items, err := fetch(ctx, ch)
			results[i] = FetchResult{ChannelID: ch.ID, Items: items, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			logger.Warn().Err(r.Err).Str("channel_id", r.ChannelID).Msg("channel fetch failed, skipping")
		}
	}
	return Merge(results)
}

// Merge flattens results in channel order, drops failed ones and sorts the
// outcome by publish time, newest first. Ties keep source order.
func Merge(results []FetchResult) []Item {
	var all []Item
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		all = append(all, r.Items...)
	}
	if all == nil {
		all = []Item{}
	}
	SortByRecency(all)
	return all
}

func SortByRecency(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
