package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/mytube-cli/internal/feed"
)

type Service interface {
	RefreshFeed(ctx context.Context, useCache bool) ([]feed.Item, error)
	ToggleWatched(ctx context.Context, id string) (bool, error)
	SetFilterShorts(ctx context.Context, on bool) error
}

type RefreshSuccessMsg struct {
	Items    []feed.Item
	Duration time.Duration
	Source   string
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type ToggleWatchedSuccessMsg struct {
	ItemID  string
	Watched bool
	Status  string
}

type ShortsFilterSuccessMsg struct {
	FilterShorts bool
	Status       string
}

type ToggleActionErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	ItemID string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ThumbnailPreviewMsg struct {
	ItemID string
	Raw    string
	Err    error
}

// RefreshCmd refreshes the feed. A full refresh fans out to every channel, so
// it gets a longer deadline than the single-request commands.
func RefreshCmd(service Service, useCache bool, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		start := time.Now()

		items, err := service.RefreshFeed(ctx, useCache)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return RefreshSuccessMsg{Items: items, Duration: time.Since(start), Source: source}
	}
}

func ToggleWatchedCmd(service Service, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		watched, err := service.ToggleWatched(ctx, itemID)
		if err != nil {
			return ToggleActionErrorMsg{Err: err}
		}

		status := "Marked as unwatched"
		if watched {
			status = "Marked as watched"
		}
		return ToggleWatchedSuccessMsg{ItemID: itemID, Watched: watched, Status: status}
	}
}

func SetShortsFilterCmd(service Service, on bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := service.SetFilterShorts(ctx, on); err != nil {
			return ToggleActionErrorMsg{Err: err}
		}
		status := "Showing shorts"
		if on {
			status = "Hiding shorts under 5 minutes"
		}
		return ShortsFilterSuccessMsg{FilterShorts: on, Status: status}
	}
}

func OpenURLCmd(itemID, url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened video in browser", ItemID: itemID, Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", ItemID: itemID, Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ThumbnailPreviewCmd(itemID, imageURL string, width int, renderFn func(context.Context, string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		raw, err := renderFn(ctx, imageURL, width)
		return ThumbnailPreviewMsg{ItemID: itemID, Raw: raw, Err: err}
	}
}
