package view

import (
	"regexp"
	"strings"
	"testing"

	"github.com/glabrego/mytube-cli/internal/feed"
	tuitheme "github.com/glabrego/mytube-cli/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestToolbar(t *testing.T) {
	if got := Toolbar(false); !strings.Contains(got, "j/k move") || !strings.Contains(got, "t/T tag") {
		t.Fatalf("unexpected list toolbar: %q", got)
	}
	if got := Toolbar(true); !strings.Contains(got, "j/k scroll") {
		t.Fatalf("unexpected detail toolbar: %q", got)
	}
}

func TestHeader(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(Header(feed.TabNew, feed.TagAll, th)); !strings.Contains(got, "MyTube") || !strings.Contains(got, "new") || !strings.Contains(got, "all") {
		t.Fatalf("unexpected header: %q", got)
	}
	if got := stripANSI(Header(feed.TabWatched, "music", th)); !strings.Contains(got, "watched") || !strings.Contains(got, "#music") {
		t.Fatalf("unexpected header: %q", got)
	}
}

func TestCompactFooter(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(CompactFooter("list", true, 42, 3, th))
	for _, want := range []string{"mode list", "shorts hidden", "channels 3", "42 shown"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}
}

func TestCompactMessage(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(CompactMessage(false, false, "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle compact message: %q", got)
	}
	if got := stripANSI(CompactMessage(true, false, "", "", th)); !strings.Contains(got, "state: loading") {
		t.Fatalf("unexpected loading compact message: %q", got)
	}
	if got := stripANSI(CompactMessage(false, true, "", "boom", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning compact message: %q", got)
	}
}

func TestEmptyMessage(t *testing.T) {
	if got := EmptyMessage(feed.TabNew, false); !strings.Contains(got, "No channels yet") {
		t.Fatalf("unexpected empty registry message: %q", got)
	}
	if got := EmptyMessage(feed.TabWatched, true); !strings.HasPrefix(got, "No watched videos yet") {
		t.Fatalf("unexpected watched message: %q", got)
	}
	if got := EmptyMessage(feed.TabNew, true); got != "No new videos to show." {
		t.Fatalf("unexpected new message: %q", got)
	}
}
