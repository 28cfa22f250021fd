package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nimbus/internal/cities"
	"github.com/five82/nimbus/internal/logging"
	"github.com/five82/nimbus/internal/state"
)

// Controller is the set of dashboard actions the UI can trigger.
type Controller interface {
	Refresh(ctx context.Context) error
	RefreshCities(ctx context.Context) error
	AddCity(city string) (bool, error)
	RemoveCity(city string) error
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Controller Controller
	Period     time.Duration
	ThemeName  string
	PrefsPath  string
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx       context.Context
	store     *state.Store
	ctrl      Controller
	period    time.Duration
	prefsPath string
	now       func() time.Time

	snapshot state.Snapshot
	theme    Theme
	keys     keyMap
	help     help.Model

	width    int
	height   int
	ready    bool
	showHelp bool

	selected   int
	refreshing bool

	adding      bool
	input       textinput.Model
	suggestions []string
	suggestIdx  int

	notice   string
	noticeOK bool
	noticeAt time.Time
}

type (
	tickMsg      time.Time
	snapshotMsg  state.Snapshot
	refreshedMsg struct {
		cities bool
		err    error
	}
	cityAddedMsg struct {
		city  string
		added bool
		err   error
	}
	cityRemovedMsg struct {
		city string
		err  error
	}
	themeSavedMsg struct{ err error }
)

// New creates a new dashboard model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	input := textinput.New()
	input.Placeholder = "City name"
	input.Prompt = "› "
	input.CharLimit = 64

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		ctrl:      opts.Controller,
		period:    opts.Period,
		prefsPath: opts.PrefsPath,
		now:       time.Now,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     input,

		suggestIdx: -1,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.snapshotCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(DefaultUIInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		if !m.noticeAt.IsZero() && m.now().Sub(m.noticeAt) > NoticeTTL {
			m.notice = ""
			m.noticeAt = time.Time{}
		}
		var cmd tea.Cmd
		if m.store != nil && m.store.Version() != m.snapshot.Version {
			cmd = m.snapshotCmd()
		}
		return m, tea.Batch(tickCmd(), cmd)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		if m.adding {
			m.rematchSuggestions()
		}
		return m, nil

	case refreshedMsg:
		m.refreshing = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			label := "Refresh"
			if msg.cities {
				label = "City refresh"
			}
			m.setNotice(label+" failed: "+msg.err.Error(), false)
		}
		return m, m.snapshotCmd()

	case cityAddedMsg:
		switch {
		case msg.err != nil:
			m.setNotice(cityErrorText(msg.err), false)
		case !msg.added:
			m.setNotice(msg.city+" is already on the dashboard", false)
		default:
			m.setNotice("Added "+msg.city, true)
		}
		return m, m.snapshotCmd()

	case cityRemovedMsg:
		if msg.err != nil {
			m.setNotice(cityErrorText(msg.err), false)
		} else {
			m.setNotice("Removed "+msg.city, true)
		}
		return m, m.snapshotCmd()

	case themeSavedMsg:
		if msg.err != nil {
			m.setNotice("Could not save theme: "+msg.err.Error(), false)
		}
		return m, nil
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cityErrorText keeps validation messages short and prefixes anything else.
func cityErrorText(err error) string {
	var verr *cities.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return "Could not update cities: " + err.Error()
}

func (m *Model) setNotice(text string, ok bool) {
	m.notice = text
	m.noticeOK = ok
	m.noticeAt = m.now()
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.CityList)
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = max(0, min(m.selected, n-1))
}

func (m Model) selectedCity() string {
	if m.selected < 0 || m.selected >= len(m.snapshot.CityList) {
		return ""
	}
	return m.snapshot.CityList[m.selected]
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.renderHeader(),
		m.renderBody(),
	}
	if m.adding {
		sections = append(sections, m.renderCityManager())
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var line string
	if m.notice != "" {
		if m.noticeOK {
			line = styles.SuccessText.Render(m.notice)
		} else {
			line = styles.WarningText.Render("⚠ " + m.notice)
		}
		line += "\n"
	}
	var keys help.KeyMap = m.keys
	if m.adding {
		keys = inputKeys{m.keys}
	}
	return line + styles.Footer.Render(m.help.View(keys))
}

// Run starts the UI and blocks until the user quits or the context ends.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui: store is required")
	}
	if opts.Controller == nil {
		return fmt.Errorf("ui: controller is required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		logging.WithComponent("ui").Debug("ui stopped by context")
		return nil
	}
	return err
}
