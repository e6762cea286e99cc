package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/mytube-cli/internal/feed"
	tuiactions "github.com/glabrego/mytube-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/mytube-cli/internal/tui/platform"
	tuistate "github.com/glabrego/mytube-cli/internal/tui/state"
	tuitheme "github.com/glabrego/mytube-cli/internal/tui/theme"
	tuiview "github.com/glabrego/mytube-cli/internal/tui/view"
)

const statusTTL = 4 * time.Second

// Service is what the interactive feed needs from the application layer.
type Service interface {
	tuiactions.Service
	CachedItems() []feed.Item
	Filter(items []feed.Item, tab feed.Tab, tag string) []feed.Item
	IsWatched(id string) bool
	Channels() []feed.Channel
	AllTags() []string
	FilterShorts() bool
}

type clearStatusMsg struct {
	id int
}

type Model struct {
	service     Service
	logger      zerolog.Logger
	theme       tuitheme.Theme
	fetched     []feed.Item
	items       []feed.Item
	cursor      int
	tab         feed.Tab
	tag         string
	showNumbers bool
	showHelp    bool
	inDetail    bool
	detailTop   int
	width       int
	height      int
	loading     bool
	status      string
	statusID    int
	err         error

	openURLFn         func(string) error
	copyURLFn         func(string) error
	renderThumbnailFn func(context.Context, string, int) (string, error)
	nowFn             func() time.Time

	showThumbnails bool
	thumbnails     map[string]tuiview.ThumbnailPreviewState
}

// NewModel builds the feed screen from whatever the service has cached; Init
// then triggers a cache-aware refresh.
func NewModel(service Service, logger zerolog.Logger) Model {
	m := Model{
		service:   service,
		logger:    logger,
		theme:     tuitheme.Default(),
		tab:       feed.TabNew,
		tag:       feed.TagAll,
		openURLFn: tuiplatform.OpenURLInBrowser,
		copyURLFn: tuiplatform.CopyURLToClipboard,
		renderThumbnailFn: func(ctx context.Context, url string, width int) (string, error) {
			return tuiview.RenderThumbnailPreview(ctx, nil, url, width)
		},
		nowFn:      time.Now,
		thumbnails: make(map[string]tuiview.ThumbnailPreviewState),
	}
	if service != nil {
		m.fetched = service.CachedItems()
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tuiactions.RefreshCmd(m.service, true, "startup")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tuiactions.RefreshSuccessMsg:
		m.loading = false
		m.err = nil
		m.fetched = msg.Items
		m.reload()
		m.logger.Debug().Str("source", msg.Source).Int("items", len(msg.Items)).Dur("took", msg.Duration).Msg("refresh finished")
		return m.setStatus(fmt.Sprintf("Loaded %d videos in %dms", len(msg.Items), msg.Duration.Milliseconds()))
	case tuiactions.RefreshErrorMsg:
		m.loading = false
		m.err = msg.Err
		m.logger.Warn().Err(msg.Err).Str("source", msg.Source).Msg("refresh failed")
		return m, nil
	case tuiactions.ToggleWatchedSuccessMsg:
		m.err = nil
		m.reload()
		if m.inDetail && tuistate.ItemIndexByID(m.items, msg.ItemID) < 0 {
			m.inDetail = false
			m.detailTop = 0
		}
		return m.setStatus(msg.Status)
	case tuiactions.ShortsFilterSuccessMsg:
		m.err = nil
		m.reload()
		return m.setStatus(msg.Status)
	case tuiactions.ToggleActionErrorMsg:
		m.err = msg.Err
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		m.err = nil
		return m.setStatus(msg.Status)
	case tuiactions.OpenURLErrorMsg:
		m.err = msg.Err
		return m, nil
	case tuiactions.ThumbnailPreviewMsg:
		preview := tuiview.ThumbnailPreviewState{Enabled: true, Raw: msg.Raw}
		if msg.Err != nil {
			preview.Err = msg.Err.Error()
		}
		m.thumbnails[msg.ItemID] = preview
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if key == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		switch key {
		case "esc":
			m.showHelp = false
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}
	if m.inDetail {
		return m.handleDetailKey(key)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "down", "j":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = tuistate.ClampCursor(len(m.items)-1, len(m.items))
	case "pgdown", "ctrl+d":
		m.moveCursor(tuistate.PageStep(m.height, m.status != ""))
	case "pgup", "ctrl+u":
		m.moveCursor(-tuistate.PageStep(m.height, m.status != ""))
	case "enter":
		if len(m.items) > 0 {
			m.inDetail = true
			m.detailTop = 0
			return m, m.ensureThumbnailCmd()
		}
	case "tab":
		if m.tab == feed.TabNew {
			return m.switchTab(feed.TabWatched)
		}
		return m.switchTab(feed.TabNew)
	case "1":
		return m.switchTab(feed.TabNew)
	case "2":
		return m.switchTab(feed.TabWatched)
	case "t":
		return m.cycleTag(1)
	case "T":
		return m.cycleTag(-1)
	case "s":
		if m.service != nil {
			return m, tuiactions.SetShortsFilterCmd(m.service, !m.service.FilterShorts())
		}
	case "N":
		m.showNumbers = !m.showNumbers
	case "m":
		return m.toggleWatchedCurrent()
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	case "r":
		if m.service != nil && !m.loading {
			m.loading = true
			m.err = nil
			return m, tuiactions.RefreshCmd(m.service, false, "manual")
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
	case "q":
		return m, tea.Quit
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	case "m":
		return m.toggleWatchedCurrent()
	case "i":
		m.showThumbnails = !m.showThumbnails
		return m, m.ensureThumbnailCmd()
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
	case "down", "j":
		if m.detailTop < tuiview.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight()) {
			m.detailTop++
		}
	case "[":
		if m.cursor > 0 {
			m.cursor--
			m.detailTop = 0
			return m, m.ensureThumbnailCmd()
		}
	case "]":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.detailTop = 0
			return m, m.ensureThumbnailCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(tuiview.Header(m.tab, m.tag, m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.inDetail))
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(helpView())
		b.WriteString("\n")
	case m.inDetail:
		b.WriteString(m.detailView())
	case m.loading && len(m.items) == 0:
		b.WriteString("Loading videos...\n")
	case len(m.items) == 0:
		b.WriteString(tuiview.EmptyMessage(m.tab, m.channelCount() > 0))
		b.WriteString("\n")
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(tuiview.CompactMessage(m.loading, m.err != nil, m.status, m.errText(), m.theme))
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	start, end := tuistate.CenteredWindow(len(m.items), m.cursor, m.listHeight())
	now := m.nowFn()
	var b strings.Builder
	for i := start; i < end; i++ {
		item := m.items[i]
		b.WriteString(tuiview.RenderItemLine(tuiview.ItemLineParams{
			Item:        item,
			Now:         now,
			Watched:     m.isWatched(item.ID),
			ShowNumbers: m.showNumbers,
			VisiblePos:  i,
			Active:      i == m.cursor,
			Width:       m.contentWidth(),
		}, m.theme))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailView() string {
	if len(m.items) == 0 {
		return "No video selected.\n"
	}
	return tuiview.RenderDetailLines(m.detailLines(), m.detailTop, m.detailBodyHeight())
}

func (m Model) detailLines() []string {
	if len(m.items) == 0 {
		return nil
	}
	item := m.items[m.cursor]
	preview := m.thumbnails[item.ID]
	preview.Enabled = m.showThumbnails
	return tuiview.DetailLines(item, m.isWatched(item.ID), m.channelTags(item.ChannelID), m.contentWidth(), 1, m.nowFn(), preview)
}

func (m Model) footer() string {
	mode := "list"
	if m.inDetail {
		mode = "detail"
	}
	filterShorts := true
	if m.service != nil {
		filterShorts = m.service.FilterShorts()
	}
	return tuiview.CompactFooter(mode, filterShorts, len(m.items), m.channelCount(), m.theme)
}

func helpView() string {
	lines := []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"Views:",
		"  tab toggles new/watched (1 new, 2 watched), t/T cycle tags, s toggles shorts",
		"  enter opens detail, esc/backspace returns to list, [ ] prev/next in detail",
		"Actions:",
		"  m toggle watched, o open in browser, y copy URL, i thumbnail preview, r refresh",
		"Options:",
		"  N numbering",
	}
	return strings.Join(lines, "\n")
}

func (m Model) switchTab(tab feed.Tab) (tea.Model, tea.Cmd) {
	if m.tab == tab {
		return m, nil
	}
	m.tab = tab
	m.cursor = 0
	m.reload()
	return m, nil
}

func (m Model) cycleTag(step int) (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	tags := m.service.AllTags()
	if len(tags) == 0 {
		return m.setStatus("No tags yet. Tag channels with `mytube tag add`.")
	}
	m.tag = tuistate.NextTag(tags, m.tag, step)
	m.cursor = 0
	m.reload()
	return m, nil
}

func (m Model) toggleWatchedCurrent() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok || m.service == nil {
		return m, nil
	}
	return m, tuiactions.ToggleWatchedCmd(m.service, item.ID)
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	url, err := tuiplatform.ValidateWatchURL(item.WatchURL())
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, tuiactions.OpenURLCmd(item.ID, url, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	url, err := tuiplatform.ValidateWatchURL(item.WatchURL())
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, tuiactions.CopyURLCmd(url, m.copyURLFn)
}

func (m *Model) ensureThumbnailCmd() tea.Cmd {
	if !m.showThumbnails || m.renderThumbnailFn == nil {
		return nil
	}
	item, ok := m.currentItem()
	if !ok {
		return nil
	}
	if _, seen := m.thumbnails[item.ID]; seen {
		return nil
	}
	m.thumbnails[item.ID] = tuiview.ThumbnailPreviewState{Enabled: true, Loading: true}
	return tuiactions.ThumbnailPreviewCmd(item.ID, item.ThumbnailURL, m.contentWidth(), m.renderThumbnailFn)
}

func (m Model) setStatus(status string) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = status
	id := m.statusID
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

// reload re-runs the filter pipeline and keeps the cursor on the same item
// when it is still listed.
func (m *Model) reload() {
	if m.service == nil {
		return
	}
	anchor := ""
	if item, ok := m.currentItem(); ok {
		anchor = item.ID
	}
	m.tag = tuistate.ValidTag(m.service.AllTags(), m.tag)
	m.items = m.service.Filter(m.fetched, m.tab, m.tag)
	m.cursor = tuistate.RestoreCursor(m.items, anchor, m.cursor)
}

func (m *Model) moveCursor(delta int) {
	m.cursor = tuistate.ClampCursor(m.cursor+delta, len(m.items))
}

func (m Model) currentItem() (feed.Item, bool) {
	if len(m.items) == 0 || m.cursor < 0 || m.cursor >= len(m.items) {
		return feed.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) isWatched(id string) bool {
	return m.service != nil && m.service.IsWatched(id)
}

func (m Model) channelCount() int {
	if m.service == nil {
		return 0
	}
	return len(m.service.Channels())
}

func (m Model) channelTags(channelID string) []string {
	if m.service == nil {
		return nil
	}
	for _, ch := range m.service.Channels() {
		if ch.ID == channelID {
			return ch.Tags
		}
	}
	return nil
}

func (m Model) errText() string {
	if m.err == nil {
		return ""
	}
	return m.err.Error()
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(3, m.height-7)
}

func (m Model) detailBodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(3, m.height-7)
}
