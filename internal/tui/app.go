package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/globe/internal/countries"
	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/pipeline"
	"github.com/mmcdole/globe/internal/reactive"
	"github.com/mmcdole/globe/internal/router"
	"github.com/mmcdole/globe/internal/tui/components"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// maxSyncPasses bounds how many pages one layout may reveal
const maxSyncPasses = 16

// EventScheduler is a reactive.Scheduler whose callbacks are delivered
// as messages. LoopScheduler is the production implementation.
type EventScheduler interface {
	reactive.Scheduler

	// Handle runs the callback carried by msg, reporting whether msg
	// belonged to the scheduler.
	Handle(msg tea.Msg) bool
}

// Options wires the model to the rest of the application
type Options struct {
	Service   *countries.Service
	Dataset   *countries.ListQuery
	History   *router.History
	Scheduler EventScheduler
	Lookup    *countries.NameLookup
	Opener    URLOpener                // optional
	SaveTheme func(theme string) error // optional

	PageSize       int
	Debounce       time.Duration
	ReplaceHistory bool
	Margin         pipeline.Margin

	Logger *slog.Logger
}

// mountMsg hydrates a freshly created home page after its first render
type mountMsg struct {
	page *homePage
}

// Model is the main Bubble Tea model for the application
type Model struct {
	opts    Options
	ctx     context.Context
	history *router.History
	sched   EventScheduler
	tracker *ViewportTracker
	cache   *pipeline.FilterCache
	logger  *slog.Logger

	// Pages; at most one is live
	route  router.Route
	home   *homePage
	detail *detailPage

	Palette components.Palette
	Spinner spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	quitting    bool
}

// NewModel creates a new application model showing the history's
// current location.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Lookup == nil {
		opts.Lookup = countries.NewNameLookup(func() []*domain.Country {
			return opts.Dataset.Data.Get()
		})
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		opts:    opts,
		ctx:     ctx,
		history: opts.History,
		sched:   opts.Scheduler,
		tracker: NewViewportTracker(),
		cache:   pipeline.NewFilterCache(opts.Scheduler.Now),
		logger:  opts.Logger,
		Palette: components.NewPalette(),
		Spinner: sp,
	}
	m.syncRoute()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick}
	if m.home != nil {
		cmds = append(cmds, mountCmd(m.home))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if !m.sched.Handle(msg) {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			m.Width = msg.Width
			m.Height = msg.Height
			m.Palette.SetSize(msg.Width, msg.Height)

		case tea.KeyMsg:
			cmds = append(cmds, m.handleKeyMsg(msg))

		case spinner.TickMsg:
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			cmds = append(cmds, cmd)

		case mountMsg:
			// Ignore pages that were closed before mounting
			if msg.page == m.home {
				m.home.mount()
			}

		case ErrMsg:
			m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
			m.StatusMsg = msg.Error()
			m.StatusIsErr = true
			cmds = append(cmds, ClearStatusCmd(5*time.Second))

		case StatusMsg:
			m.StatusMsg = msg.Message
			m.StatusIsErr = msg.IsError
			cmds = append(cmds, ClearStatusCmd(3*time.Second))

		case ThemeSavedMsg:
			m.StatusMsg = "Theme saved: " + msg.Theme
			m.StatusIsErr = false
			cmds = append(cmds, ClearStatusCmd(3*time.Second))

		case FlagOpenedMsg:
			m.StatusMsg = "Opened flag of " + msg.Country
			m.StatusIsErr = false
			cmds = append(cmds, ClearStatusCmd(3*time.Second))

		case ClearStatusMsg:
			m.StatusMsg = ""
			m.StatusIsErr = false

		default:
			if m.home != nil {
				cmds = append(cmds, m.home.updateInput(msg))
			}
		}
	}

	if m.quitting {
		m.close()
		return m, tea.Quit
	}

	cmds = append(cmds, m.syncRoute())
	m.layout()
	return m, tea.Batch(cmds...)
}

// Route returns the page being shown
func (m Model) Route() router.Route {
	return m.route
}

// Close releases every live page and the dataset query.
func (m *Model) close() {
	m.closePages()
	m.opts.Dataset.Close()
}

// syncRoute makes the live page match the history's current location.
func (m *Model) syncRoute() tea.Cmd {
	match := m.history.Match()
	m.route = match.Route

	switch match.Route {
	case router.RouteHome:
		if m.detail != nil {
			m.detail.close()
			m.detail = nil
		}
		if m.home == nil {
			m.home = newHomePage(m)
			return mountCmd(m.home)
		}

	case router.RouteCountryDetail:
		if m.home != nil {
			m.home.close()
			m.home = nil
		}
		code := match.Params["cca3"]
		if m.detail == nil {
			m.detail = newDetailPage(m, code)
		} else if code != m.detail.query.Code() {
			m.detail.query.SetCode(code)
		}

	default:
		m.closePages()
	}
	return nil
}

func (m *Model) closePages() {
	if m.home != nil {
		m.home.close()
		m.home = nil
	}
	if m.detail != nil {
		m.detail.close()
		m.detail = nil
	}
}

// layout sizes the live page and lets the viewport tracker reveal pages
// until the sentinel settles.
func (m *Model) layout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	switch {
	case m.home != nil:
		m.home.setSize(m.Width, m.Height-chromeHeight)
		m.home.syncList()
		for i := 0; i < maxSyncPasses; i++ {
			if !m.tracker.Sync(m.home.viewport()) {
				break
			}
			m.home.syncList()
		}
	case m.detail != nil:
		m.detail.setSize(m.Width, m.Height-chromeHeight)
		m.detail.sync()
	}
}

func mountCmd(page *homePage) tea.Cmd {
	return func() tea.Msg {
		return mountMsg{page: page}
	}
}
