package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChannel_RejectsDuplicates(t *testing.T) {
	chs, err := AddChannel(nil, Channel{ID: "UC1", Tags: []string{" Music ", "music", ""}})
	require.NoError(t, err)
	require.Len(t, chs, 1)
	assert.Equal(t, []string{"music"}, chs[0].Tags)

	again, err := AddChannel(chs, Channel{ID: "UC1"})
	assert.ErrorIs(t, err, ErrChannelExists)
	assert.Len(t, again, 1)
}

func TestRemoveChannel(t *testing.T) {
	chs := []Channel{{ID: "A", Title: "Alpha"}, {ID: "B"}}

	out, removed, ok := RemoveChannel(chs, "A")
	require.True(t, ok)
	assert.Equal(t, "Alpha", removed.Title)
	assert.Len(t, out, 1)
	assert.Len(t, chs, 2, "input must not be modified")

	_, _, ok = RemoveChannel(out, "missing")
	assert.False(t, ok)
}

func TestTags_LowercasedAndDeduplicated(t *testing.T) {
	chs := []Channel{{ID: "A"}}

	chs, err := AddTag(chs, "A", "  Tech ")
	require.NoError(t, err)
	chs, err = AddTag(chs, "A", "TECH")
	require.NoError(t, err)
	assert.Equal(t, []string{"tech"}, chs[0].Tags)

	chs, err = AddTag(chs, "A", "news")
	require.NoError(t, err)
	chs, err = RemoveTag(chs, "A", "Tech")
	require.NoError(t, err)
	assert.Equal(t, []string{"news"}, chs[0].Tags)

	_, err = AddTag(chs, "A", "   ")
	assert.ErrorIs(t, err, ErrEmptyTag)
	_, err = AddTag(chs, "Z", "x")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestParseTagsAndAllTags(t *testing.T) {
	assert.Equal(t, []string{"music", "live"}, ParseTags("Music, live,,music , "))
	assert.Empty(t, ParseTags(""))

	chs := []Channel{
		{ID: "A", Tags: []string{"tech", "news"}},
		{ID: "B", Tags: []string{"news"}},
		{ID: "C"},
	}
	assert.Equal(t, []string{"news", "tech"}, AllTags(chs))
	assert.Empty(t, AllTags(nil))
}

func TestCache_ValidStrictlyWithinTTL(t *testing.T) {
	fetched := time.UnixMilli(1_700_000_000_000)
	c := Cache{FetchedAt: fetched}

	assert.True(t, c.Valid(fetched, DefaultCacheTTL))
	assert.True(t, c.Valid(fetched.Add(299_999*time.Millisecond), DefaultCacheTTL))
	assert.False(t, c.Valid(fetched.Add(300_000*time.Millisecond), DefaultCacheTTL))
	assert.False(t, Cache{}.Valid(fetched, DefaultCacheTTL))
}

func TestCache_MillisRoundTrip(t *testing.T) {
	c := CacheFromMillis(nil, 1_700_000_000_123)
	assert.EqualValues(t, 1_700_000_000_123, c.FetchedAtMillis())
	assert.Zero(t, CacheFromMillis(nil, 0).FetchedAtMillis())
	assert.True(t, CacheFromMillis(nil, 0).FetchedAt.IsZero())
}

func TestIDSet_CopyOnWrite(t *testing.T) {
	base := NewIDSet([]string{"b", "a"})
	with := base.With("c")
	without := with.Without("a")

	assert.False(t, base.Has("c"))
	assert.True(t, with.Has("c"))
	assert.Equal(t, []string{"b", "c"}, without.Slice())
	assert.Equal(t, []string{"a", "b"}, base.Slice())
}
