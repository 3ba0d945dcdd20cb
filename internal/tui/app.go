package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytscout/ytscout/internal/browser"
	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/scout"
	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/youtube"
)

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
)

var sortKeys = []string{"score", "views", "likes", "comments", "published"}

var kinds = []string{store.KindAll, store.KindLongform, store.KindShorts}

// CommentsFetcher loads top comments on demand for the detail pane.
type CommentsFetcher interface {
	GetTopComments(ctx context.Context, videoID string, max int) ([]youtube.Comment, error)
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg          *config.Config
	Niches       config.Niches
	Finder       *scout.Finder
	Comments     CommentsFetcher
	Niche        string
	Keyword      string
	MinScore     float64
	SortBy       string
	ForceRefresh bool
}

type App struct {
	cfg      *config.Config
	niches   config.Niches
	finder   *scout.Finder
	comments CommentsFetcher

	videos   []store.Snapshot
	warnings []string
	cursor   int
	focus    focusPane
	mode     mode

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar

	sortIdx       int
	kindIdx       int
	minScore      float64
	refreshing    bool
	detailScroll  int
	err          error
	commentCache map[string][]youtube.Comment
	commentNotes map[string]string
	forceOnFirst bool
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search titles and descriptions..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100
	ti.SetValue(opts.Keyword)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	fb := newFilterBar(opts.Niches.Names())
	fb.active = opts.Niche

	sortIdx := 0
	for i, k := range sortKeys {
		if k == opts.SortBy {
			sortIdx = i
		}
	}

	return &App{
		cfg:          opts.Cfg,
		niches:       opts.Niches,
		finder:       opts.Finder,
		comments:     opts.Comments,
		filterBar:    fb,
		searchInput:  ti,
		spinner:      sp,
		sortIdx:      sortIdx,
		minScore:     opts.MinScore,
		commentCache: make(map[string][]youtube.Comment),
		commentNotes: make(map[string]string),
		forceOnFirst: opts.ForceRefresh,
	}
}

func (a *App) Init() tea.Cmd {
	a.refreshing = true
	return tea.Batch(a.findCmd(a.forceOnFirst), a.spinner.Tick)
}

// findOpts captures the current query state for the pipeline.
func (a *App) findOpts(force bool) scout.FindOpts {
	var channels []config.Channel
	if niche := a.filterBar.activeNiche(); niche != "" {
		channels = a.niches[niche]
	}
	return scout.FindOpts{
		Channels:      channels,
		Keyword:       a.searchInput.Value(),
		MinScore:      a.minScore,
		Kind:          kinds[a.kindIdx],
		SortBy:        sortKeys[a.sortIdx],
		Metric:        a.cfg.Metric,
		MaxAge:        a.cfg.MaxAgeDuration(),
		MaxPerChannel: a.cfg.GetMaxPerChannel(),
		ForceRefresh:  force,
	}
}

// findCmd captures current query state into the closure to avoid races.
func (a *App) findCmd(force bool) tea.Cmd {
	opts := a.findOpts(force)
	finder := a.finder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		res, err := finder.Find(ctx, opts)
		if err != nil {
			return queryErrMsg{err: err}
		}
		return resultsMsg{result: res}
	}
}

// maybeFetchComments lazily loads comments for the selected video.
func (a *App) maybeFetchComments() tea.Cmd {
	if a.comments == nil || len(a.videos) == 0 || a.cursor >= len(a.videos) {
		return nil
	}
	id := a.videos[a.cursor].VideoID
	if _, ok := a.commentCache[id]; ok {
		return nil
	}
	if _, ok := a.commentNotes[id]; ok {
		return nil
	}
	a.commentNotes[id] = "Loading comments..."

	fetcher := a.comments
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		comments, err := fetcher.GetTopComments(ctx, id, 5)
		return commentsMsg{videoID: id, comments: comments, err: err}
	}
}

func openVideoCmd(videoID string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.OpenVideo(videoID); err != nil {
			return queryErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case resultsMsg:
		a.refreshing = false
		a.videos = msg.result.Snapshots
		a.warnings = msg.result.Warnings
		if a.cursor >= len(a.videos) {
			a.cursor = max(0, len(a.videos)-1)
		}
		return a, a.maybeFetchComments()

	case queryErrMsg:
		a.refreshing = false
		a.err = msg.err
		return a, nil

	case commentsMsg:
		if msg.err != nil {
			if errors.Is(msg.err, youtube.ErrCommentsDisabled) {
				a.commentNotes[msg.videoID] = "Comments are disabled on this video."
			} else {
				a.commentNotes[msg.videoID] = "Comments unavailable."
			}
			return a, nil
		}
		delete(a.commentNotes, msg.videoID)
		a.commentCache[msg.videoID] = msg.comments
		return a, nil

	case spinner.TickMsg:
		if a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.videos)-1 {
			a.cursor++
			a.detailScroll = 0
			return a, a.maybeFetchComments()
		} else if a.focus == focusDetail {
			a.detailScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.detailScroll = 0
			return a, a.maybeFetchComments()
		} else if a.focus == focusDetail && a.detailScroll > 0 {
			a.detailScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusDetail
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if len(a.videos) > 0 && a.cursor < len(a.videos) {
			return a, openVideoCmd(a.videos[a.cursor].VideoID)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "v":
		a.kindIdx = (a.kindIdx + 1) % len(kinds)
		return a, a.reload(false)
	case "s":
		a.sortIdx = (a.sortIdx + 1) % len(sortKeys)
		return a, a.reload(false)
	case "r":
		if !a.refreshing {
			return a, a.reload(true)
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) reload(force bool) tea.Cmd {
	a.refreshing = true
	a.cursor = 0
	a.detailScroll = 0
	return tea.Batch(a.findCmd(force), a.spinner.Tick)
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.reload(false)
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, nil
	case "h", "left":
		a.filterBar.moveLeft()
		return a, nil
	case "l", "right":
		a.filterBar.moveRight()
		return a, nil
	case "enter", " ":
		a.filterBar.selectCurrent()
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, a.reload(false)
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.mode == modeHelp {
		return a.helpView()
	}

	var top []string
	if a.mode == modeFilter {
		top = append(top, a.filterBar.render(a.width))
	}
	if a.mode == modeSearch {
		top = append(top, a.searchInput.View())
	}
	if a.err != nil {
		top = append(top, warnStyle.Render(" "+a.err.Error()))
	}

	statusHeight := 1
	paneHeight := a.height - statusHeight - len(top) - 2 // borders
	if paneHeight < 3 {
		paneHeight = 3
	}

	listWidth := a.width * 2 / 5
	detailWidth := a.width - listWidth - 4
	if listWidth < 20 {
		listWidth = 20
	}
	if detailWidth < 20 {
		detailWidth = 20
	}

	listStyle := listPaneStyle
	detailStyle := detailPaneStyle
	if a.focus == focusList {
		listStyle = listPaneActiveStyle
	} else {
		detailStyle = detailPaneActiveStyle
	}

	listPane := listStyle.Width(listWidth).Height(paneHeight).Render(
		renderList(a.videos, a.cursor, paneHeight, listWidth))

	var selected *store.Snapshot
	var comments []youtube.Comment
	var note string
	if len(a.videos) > 0 && a.cursor < len(a.videos) {
		selected = &a.videos[a.cursor]
		comments = a.commentCache[selected.VideoID]
		note = a.commentNotes[selected.VideoID]
	}
	detailPane := detailStyle.Width(detailWidth).Height(paneHeight).Render(
		renderDetail(selected, comments, note, detailWidth, paneHeight, a.detailScroll))

	panes := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	status := renderStatusBar(len(a.videos), a.filterBar.activeLabel(),
		sortKeys[a.sortIdx], kindLabel(a.kindIdx), len(a.warnings),
		a.width, a.mode == modeSearch, a.refreshing)
	if a.refreshing {
		status = a.spinner.View() + status
	}

	sections := append(top, panes, status)
	return strings.Join(sections, "\n")
}

func kindLabel(idx int) string {
	if kinds[idx] == store.KindAll {
		return "all"
	}
	return kinds[idx]
}

func (a *App) helpView() string {
	lines := []string{
		"",
		"  ytscout keys",
		"",
		"  j/k, up/down   move / scroll detail",
		"  tab            switch pane",
		"  enter, o       open video in browser",
		"  /              keyword search",
		"  f              choose niche",
		"  v              cycle all/longform/shorts",
		"  s              cycle sort key",
		"  r              force refresh from the API",
		"  ?              toggle this help",
		"  q              quit",
		"",
	}
	if len(a.warnings) > 0 {
		lines = append(lines, "  Warnings from the last refresh:")
		for _, w := range a.warnings {
			lines = append(lines, warnStyle.Render("   - "+w))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Run launches the TUI and blocks until the operator quits.
func Run(opts RunOpts) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
