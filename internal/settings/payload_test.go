package settings

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/mytube-cli/internal/feed"
)

func samplePayload() Payload {
	return Payload{
		APIKey: "key-1",
		Channels: []feed.Channel{
			{ID: "UC1", Title: "One", ThumbnailURL: "https://img/1", UploadsFeedID: "UU1", Tags: []string{"music"}},
			{ID: "UC2", Title: "Two", UploadsFeedID: "UU2"},
		},
		FilterShorts: false,
		WatchedIDs:   []string{"v1", "v2"},
	}
}

func TestEncodeFile_RoundTripsThroughParse(t *testing.T) {
	data, err := EncodeFile(samplePayload())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"uploadsPlaylistId": "UU1"`)
	assert.Contains(t, string(data), `"tags": []`)

	patch, err := ParsePayload(data)
	require.NoError(t, err)
	require.NotNil(t, patch.APIKey)
	assert.Equal(t, "key-1", *patch.APIKey)
	require.NotNil(t, patch.FilterShorts)
	assert.False(t, *patch.FilterShorts)
	assert.True(t, patch.HasChannels())
	assert.Len(t, patch.Channels, 2)
	assert.Equal(t, []string{"music"}, patch.Channels[0].Tags)
	assert.True(t, patch.HasWatched())
	assert.Equal(t, []string{"v1", "v2"}, patch.WatchedIDs)
}

func TestParsePayload_PartialDocument(t *testing.T) {
	patch, err := ParsePayload([]byte(`{"apiKey": "", "watchedIds": ["x"]}`))
	require.NoError(t, err)

	assert.Nil(t, patch.APIKey, "empty key is treated as absent")
	assert.Nil(t, patch.FilterShorts)
	assert.False(t, patch.HasChannels())
	assert.True(t, patch.HasWatched())
	assert.Equal(t, []string{"x"}, patch.WatchedIDs)
}

func TestParsePayload_EmptyChannelListIsPresent(t *testing.T) {
	patch, err := ParsePayload([]byte(`{"channels": []}`))
	require.NoError(t, err)
	assert.True(t, patch.HasChannels())
	assert.Empty(t, patch.Channels)
}

func TestParsePayload_Invalid(t *testing.T) {
	cases := map[string]string{
		"null":          `null`,
		"array":         `[1,2]`,
		"empty":         ``,
		"not json":      `{apiKey`,
		"wrong type":    `{"filterShorts": "yes"}`,
		"wrong channel": `{"channels": {"id": "UC1"}}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePayload([]byte(input))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestSyncLink_RoundTrip(t *testing.T) {
	link, err := SyncLink("https://mytube.local/#old", samplePayload())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://mytube.local/#sync="))

	patch, err := DecodeSyncLink(link)
	require.NoError(t, err)
	assert.Equal(t, "key-1", *patch.APIKey)
	assert.Len(t, patch.Channels, 2)
	assert.Equal(t, []string{"v1", "v2"}, patch.WatchedIDs)
}

func TestDecodeSyncLink_AcceptsFragmentAndRawForms(t *testing.T) {
	raw := `{"filterShorts": true}`
	inputs := []string{
		"#sync=" + base64.StdEncoding.EncodeToString([]byte(raw)),
		"sync=" + base64.RawURLEncoding.EncodeToString([]byte(raw)),
		base64.RawStdEncoding.EncodeToString([]byte(raw)),
		"  " + base64.URLEncoding.EncodeToString([]byte(raw)) + "\n",
	}
	for _, input := range inputs {
		patch, err := DecodeSyncLink(input)
		require.NoError(t, err, input)
		require.NotNil(t, patch.FilterShorts)
		assert.True(t, *patch.FilterShorts)
	}
}

func TestDecodeSyncLink_Invalid(t *testing.T) {
	cases := []string{
		"",
		"https://mytube.local/#sync=",
		"https://mytube.local/#sync=!!!not-base64!!!",
		"#sync=" + base64.StdEncoding.EncodeToString([]byte("null")),
		"#sync=" + base64.StdEncoding.EncodeToString([]byte(`{"channels": 3}`)),
	}
	for _, input := range cases {
		_, err := DecodeSyncLink(input)
		assert.ErrorIs(t, err, ErrInvalidSyncLink, input)
	}
}

func TestPatchOf_ReplacesEverything(t *testing.T) {
	patch := PatchOf(Payload{})
	assert.Nil(t, patch.APIKey)
	require.NotNil(t, patch.FilterShorts)
	assert.True(t, patch.HasChannels())
	assert.NotNil(t, patch.Channels)
	assert.True(t, patch.HasWatched())
}
