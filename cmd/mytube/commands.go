package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v2"

	"github.com/glabrego/mytube-cli/internal/app"
	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/format"
	"github.com/glabrego/mytube-cli/internal/tui"
)

const defaultSettingsFile = "mytube-settings.json"

func newApp(rt *runtime) *cli.App {
	return &cli.App{
		Name:   "mytube",
		Usage:  "aggregate the latest uploads of your YouTube channels",
		Action: rt.runTUI,
		After: func(*cli.Context) error {
			return rt.close()
		},
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "open the interactive feed (default)",
				Action: rt.runTUI,
			},
			{
				Name:      "search",
				Usage:     "list channels matching a handle, channel URL, channel ID or search term",
				ArgsUsage: "<query>",
				Action:    rt.runSearch,
			},
			{
				Name:      "add",
				Usage:     "subscribe to a channel",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "pick", Value: 1, Usage: "which search result to add (1-based)"},
					&cli.StringFlag{Name: "tags", Usage: "comma separated tags"},
				},
				Action: rt.runAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "unsubscribe from a channel",
				ArgsUsage: "<channel-id>",
				Action:    rt.runRemove,
			},
			{
				Name:   "channels",
				Usage:  "list subscribed channels",
				Action: rt.runChannels,
			},
			{
				Name:  "tag",
				Usage: "edit channel tags",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						ArgsUsage: "<channel-id> <tag>",
						Action:    rt.runTag(true),
					},
					{
						Name:      "rm",
						ArgsUsage: "<channel-id> <tag>",
						Action:    rt.runTag(false),
					},
				},
			},
			{
				Name:  "feed",
				Usage: "print the aggregated feed",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tab", Value: "new", Usage: "new or watched"},
					&cli.StringFlag{Name: "tag", Usage: "only channels carrying this tag"},
					&cli.BoolFlag{Name: "no-cache", Usage: "ignore the cached feed"},
					&cli.StringFlag{Name: "shorts", Usage: "override the stored shorts filter (on|off)"},
					&cli.IntFlag{Name: "limit", Usage: "print at most this many items"},
				},
				Action: rt.runFeed,
			},
			{
				Name:      "watch",
				Usage:     "mark a video as watched",
				ArgsUsage: "<video-id>",
				Action:    rt.runWatched(true),
			},
			{
				Name:      "unwatch",
				Usage:     "mark a video as not watched",
				ArgsUsage: "<video-id>",
				Action:    rt.runWatched(false),
			},
			{
				Name:      "shorts",
				Usage:     "show or set the shorts filter",
				ArgsUsage: "[on|off]",
				Action:    rt.runShorts,
			},
			{
				Name:      "key",
				Usage:     "show or set the API key",
				ArgsUsage: "[api-key]",
				Action:    rt.runKey,
			},
			{
				Name:      "export",
				Usage:     "write the settings file (- for stdout)",
				ArgsUsage: "[file]",
				Action:    rt.runExport,
			},
			{
				Name:      "import",
				Usage:     "apply a settings file (- for stdin)",
				ArgsUsage: "<file>",
				Action:    rt.runImport,
			},
			{
				Name:  "sync-link",
				Usage: "print a link carrying the current settings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "base", Usage: "link base URL", EnvVars: []string{"MYTUBE_SYNC_BASE_URL"}},
				},
				Action: rt.runSyncLink,
			},
			{
				Name:      "sync",
				Usage:     "apply settings from a sync link",
				ArgsUsage: "<link>",
				Action:    rt.runSync,
			},
		},
	}
}

func (r *runtime) svc(c *cli.Context) (*app.Service, error) {
	return r.open(c.Context, false, c.App.ErrWriter)
}

func (r *runtime) runTUI(c *cli.Context) error {
	svc, err := r.open(c.Context, true, c.App.ErrWriter)
	if err != nil {
		return err
	}
	r.logger.Info().Int("channels", len(svc.Channels())).Msg("starting tui")
	p := tea.NewProgram(tui.NewModel(svc, r.logger), tea.WithAltScreen(), tea.WithContext(c.Context))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (r *runtime) runSearch(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("usage: mytube search <query>")
	}
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	candidates, err := svc.SearchChannels(c.Context, query)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(c.App.Writer, "No channels found.")
		return nil
	}
	t := table.New().Headers("#", "ID", "TITLE", "SUBSCRIBERS")
	for i, cand := range candidates {
		subs := "hidden"
		if n, ok := cand.SubscriberCount(); ok {
			subs = format.SubCount(n)
		}
		t.Row(strconv.Itoa(i+1), cand.ID, cand.Title(), subs)
	}
	fmt.Fprintln(c.App.Writer, t.String())
	return nil
}

func (r *runtime) runAdd(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("usage: mytube add [--pick N] [--tags a,b] <query>")
	}
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	candidates, err := svc.SearchChannels(c.Context, query)
	if err != nil {
		return err
	}
	pick := c.Int("pick")
	if len(candidates) == 0 {
		return fmt.Errorf("no channels match %q", query)
	}
	if pick < 1 || pick > len(candidates) {
		return fmt.Errorf("--pick must be between 1 and %d", len(candidates))
	}
	ch, err := svc.AddChannel(c.Context, candidates[pick-1], feed.ParseTags(c.String("tags")))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Added %s (%s)\n", ch.Title, ch.ID)
	return nil
}

func (r *runtime) runRemove(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("usage: mytube remove <channel-id>")
	}
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	ch, ok, err := svc.RemoveChannel(c.Context, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", app.ErrChannelNotFound, id)
	}
	fmt.Fprintf(c.App.Writer, "Removed %s (%s)\n", ch.Title, ch.ID)
	return nil
}

func (r *runtime) runChannels(c *cli.Context) error {
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	channels := svc.Channels()
	if len(channels) == 0 {
		fmt.Fprintln(c.App.Writer, "No channels yet. Add one with: mytube add <query>")
		return nil
	}
	writeChannels(c.App.Writer, channels)
	return nil
}

func writeChannels(w io.Writer, channels []feed.Channel) {
	t := table.New().Headers("ID", "TITLE", "TAGS")
	for _, ch := range channels {
		tags := make([]string, 0, len(ch.Tags))
		for _, tag := range ch.Tags {
			tags = append(tags, "#"+tag)
		}
		t.Row(ch.ID, ch.Title, strings.Join(tags, " "))
	}
	fmt.Fprintln(w, t.String())
}

func (r *runtime) runTag(add bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 2 {
			return errors.New("usage: mytube tag add|rm <channel-id> <tag>")
		}
		svc, err := r.svc(c)
		if err != nil {
			return err
		}
		id, tag := c.Args().Get(0), c.Args().Get(1)
		if add {
			return svc.AddTag(c.Context, id, tag)
		}
		return svc.RemoveTag(c.Context, id, tag)
	}
}

func (r *runtime) runFeed(c *cli.Context) error {
	tab, ok := feed.ParseTab(c.String("tab"))
	if !ok {
		return fmt.Errorf("invalid --tab %q (want new or watched)", c.String("tab"))
	}
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	filterShorts := svc.FilterShorts()
	if raw := c.String("shorts"); raw != "" {
		on, err := parseOnOff(raw)
		if err != nil {
			return err
		}
		filterShorts = on
	}

	items, err := svc.RefreshFeed(c.Context, !c.Bool("no-cache"))
	if err != nil {
		return err
	}
	view := feed.View{Tab: tab, Tag: feed.NormalizeTag(c.String("tag")), FilterShorts: filterShorts}
	visible := feed.ApplyFilters(items, view, svc.Channels(), svc.State().Watched)
	if limit := c.Int("limit"); limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	if len(visible) == 0 {
		fmt.Fprintln(c.App.Writer, "No videos to show.")
		return nil
	}
	now := r.now()
	for _, it := range visible {
		fmt.Fprintf(c.App.Writer, "%s  %8s  %s | %s  [%s · %s]\n",
			it.ID,
			format.Duration(it.DurationSeconds),
			it.ChannelTitle,
			it.Title,
			format.ViewCount(it.ViewCount),
			format.TimeAgo(now, it.PublishedAt),
		)
	}
	return nil
}

func (r *runtime) runWatched(watched bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		id := c.Args().First()
		if id == "" {
			return errors.New("usage: mytube watch|unwatch <video-id>")
		}
		svc, err := r.svc(c)
		if err != nil {
			return err
		}
		if watched {
			return svc.MarkWatched(c.Context, id)
		}
		return svc.MarkUnwatched(c.Context, id)
	}
}

func (r *runtime) runShorts(c *cli.Context) error {
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		fmt.Fprintf(c.App.Writer, "shorts filter: %s\n", onOff(svc.FilterShorts()))
		return nil
	}
	on, err := parseOnOff(c.Args().First())
	if err != nil {
		return err
	}
	return svc.SetFilterShorts(c.Context, on)
}

func (r *runtime) runKey(c *cli.Context) error {
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		if svc.HasAPIKey() {
			fmt.Fprintln(c.App.Writer, "API key: set")
		} else {
			fmt.Fprintln(c.App.Writer, "API key: not set")
		}
		return nil
	}
	return svc.SetAPIKey(c.Context, c.Args().First())
}

func (r *runtime) runExport(c *cli.Context) error {
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	data, err := svc.ExportFile()
	if err != nil {
		return err
	}
	path := c.Args().First()
	if path == "" {
		path = defaultSettingsFile
	}
	if path == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Settings written to %s\n", path)
	return nil
}

func (r *runtime) runImport(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("usage: mytube import <file>")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	if err := svc.ImportFile(c.Context, data); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Settings imported (%d channels)\n", len(svc.Channels()))
	return nil
}

func (r *runtime) runSyncLink(c *cli.Context) error {
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	base := c.String("base")
	if base == "" {
		base = r.syncBaseURL()
	}
	link, err := svc.SyncLink(base)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, link)
	return nil
}

func (r *runtime) runSync(c *cli.Context) error {
	link := c.Args().First()
	if link == "" {
		return errors.New("usage: mytube sync <link>")
	}
	svc, err := r.svc(c)
	if err != nil {
		return err
	}
	if err := svc.ApplySyncLink(c.Context, link); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Settings synced (%d channels)\n", len(svc.Channels()))
	return nil
}

func parseOnOff(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", raw)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
