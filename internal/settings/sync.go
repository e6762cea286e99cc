package settings

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const syncFragment = "sync="

var ErrInvalidSyncLink = errors.New("invalid sync link")

var syncEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// SyncLink returns base with a #sync= fragment carrying the base64 encoded
// payload. Any existing fragment on base is replaced.
func SyncLink(base string, p Payload) (string, error) {
	p.Channels = nonNilChannels(p.Channels)
	p.WatchedIDs = nonNilStrings(p.WatchedIDs)
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode sync payload: %w", err)
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + syncFragment + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeSyncLink accepts a full sync link, a bare "#sync=..." fragment or
// the raw base64 payload.
func DecodeSyncLink(link string) (Patch, error) {
	encoded := syncPayloadPart(link)
	if encoded == "" {
		return Patch{}, fmt.Errorf("%w: empty payload", ErrInvalidSyncLink)
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidSyncLink, err)
	}
	patch, err := ParsePayload(raw)
	if err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidSyncLink, err)
	}
	return patch, nil
}

func syncPayloadPart(link string) string {
	s := strings.TrimSpace(link)
	if i := strings.Index(s, "#"+syncFragment); i >= 0 {
		s = s[i+1+len(syncFragment):]
	} else {
		s = strings.TrimPrefix(s, "#")
		s = strings.TrimPrefix(s, syncFragment)
	}
	if i := strings.IndexByte(s, '&'); i >= 0 {
		s = s[:i]
	}
	if strings.Contains(s, "%") {
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
	}
	return s
}

func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range syncEncodings {
		out, err := enc.DecodeString(s)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
