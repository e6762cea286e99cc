package youtube

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	channelParts      = "snippet,contentDetails,statistics"
	searchResultLimit = 5
)

var (
	reChannelID  = regexp.MustCompile(`^UC[\w-]{22}$`)
	reChannelURL = regexp.MustCompile(`youtube\.com/(?:channel/(UC[\w-]{22})|(@[\w.-]+)|c/([\w.-]+))`)
)

// lookup is one cheap resolution strategy. match extracts the argument the
// strategy needs from the query, or reports that it does not apply.
type lookup struct {
	name  string
	match func(query string) (string, bool)
	fetch func(c *Client, ctx context.Context, apiKey, arg string) ([]ChannelRecord, error)
}

var lookups = []lookup{
	{
		name:  "handle",
		match: func(q string) (string, bool) { return q, strings.HasPrefix(q, "@") },
		fetch: (*Client).channelsByHandle,
	},
	{
		name:  "id",
		match: func(q string) (string, bool) { return q, reChannelID.MatchString(q) },
		fetch: (*Client).channelsByID,
	},
	{
		name:  "url-id",
		match: func(q string) (string, bool) { return urlPart(q, 1) },
		fetch: (*Client).channelsByID,
	},
	{
		name:  "url-handle",
		match: func(q string) (string, bool) { return urlPart(q, 2) },
		fetch: (*Client).channelsByHandle,
	},
}

func urlPart(query string, group int) (string, bool) {
	m := reChannelURL.FindStringSubmatch(query)
	if m == nil || m[group] == "" {
		return "", false
	}
	return m[group], true
}

// searchTerm is the keyword used by the free-text fallback: the custom name
// when the query is a /c/<name> URL, the query itself otherwise.
func searchTerm(query string) string {
	if custom, ok := urlPart(query, 3); ok {
		return custom
	}
	return query
}

// ResolveChannels turns a handle, channel URL, raw channel ID or free text into
// channel candidates. Cheap lookups are tried first and their failures are
// swallowed; only the free-text search can fail the call. An empty result
// means nothing matched.
func (c *Client) ResolveChannels(ctx context.Context, apiKey, query string) ([]ChannelRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ChannelRecord{}, nil
	}

	for _, l := range lookups {
		arg, ok := l.match(query)
		if !ok {
			continue
		}
		records, err := l.fetch(c, ctx, apiKey, arg)
		if err != nil {
			c.logger.Debug().Err(err).Str("strategy", l.name).Str("query", query).Msg("channel lookup failed, falling through")
			continue
		}
		if len(records) > 0 {
			return records, nil
		}
	}

	return c.searchChannels(ctx, apiKey, searchTerm(query))
}

func (c *Client) channelsByHandle(ctx context.Context, apiKey, handle string) ([]ChannelRecord, error) {
	return c.listChannels(ctx, apiKey, url.Values{"forHandle": {handle}})
}

func (c *Client) channelsByID(ctx context.Context, apiKey, ids string) ([]ChannelRecord, error) {
	return c.listChannels(ctx, apiKey, url.Values{"id": {ids}})
}

func (c *Client) listChannels(ctx context.Context, apiKey string, params url.Values) ([]ChannelRecord, error) {
	params.Set("part", channelParts)
	var resp listResponse[ChannelRecord]
	if err := c.get(ctx, apiKey, "channels", params, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []ChannelRecord{}, nil
	}
	return resp.Items, nil
}

// searchChannels runs a keyword search restricted to channels and enriches
// the hits with full channel details in one follow-up call.
func (c *Client) searchChannels(ctx context.Context, apiKey, term string) ([]ChannelRecord, error) {
	var hits listResponse[searchResult]
	err := c.get(ctx, apiKey, "search", url.Values{
		"part":       {"snippet"},
		"q":          {term},
		"type":       {"channel"},
		"maxResults": {strconv.Itoa(searchResultLimit)},
	}, &hits)
	if err != nil {
		return nil, err
	}

	ids := lo.Compact(lo.Map(hits.Items, func(h searchResult, _ int) string { return h.Snippet.ChannelID }))
	if len(ids) == 0 {
		return []ChannelRecord{}, nil
	}
	records, err := c.channelsByID(ctx, apiKey, strings.Join(lo.Uniq(ids), ","))
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(hits.Items))
	for _, h := range hits.Items {
		titles[h.Snippet.ChannelID] = h.title()
	}
	for i := range records {
		if records[i].Snippet.Title == "" {
			records[i].Snippet.Title = titles[records[i].ID]
		}
	}
	return records, nil
}
