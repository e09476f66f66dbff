package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/knightbus/internal/domain/roster"
)

// RosterService is the slice of the roster service the console drives.
type RosterService interface {
	AddKnight(ctx context.Context, req roster.AddKnightRequest) (*roster.Knight, error)
	AddClient(ctx context.Context, req roster.AddClientRequest) (*roster.Client, error)
	UpdateKnight(ctx context.Context, req roster.UpdateKnightRequest) (*roster.Knight, error)
	UpdateClient(ctx context.Context, req roster.UpdateClientRequest) (*roster.Client, error)
	DeleteKnight(ctx context.Context, id int64) error
	DeleteClient(ctx context.Context, id int64) error
	ToggleSelection(ctx context.Context, kind roster.Kind, id int64) (bool, error)
	ClearSelection()
	FormParty(ctx context.Context) (*roster.Party, error)
	CompleteMission(ctx context.Context, partyID int64) (*roster.MissionResult, error)
	ToggleKnightDuty(ctx context.Context, id int64) (*roster.Knight, error)
	ExportKnightRoster(ctx context.Context) (string, error)
	ImportKnightRoster(ctx context.Context, text string) (roster.ImportSummary, error)
	Snapshot(ctx context.Context) (*roster.Snapshot, error)
}

// State represents the current view state
type State int

const (
	StateBrowse State = iota
	StateForm
	StateConfirm
	StateExport
	StateImport
)

// Pane identifies one of the three roster columns.
type Pane int

const (
	PaneKnights Pane = iota
	PaneClients
	PaneParties
	paneCount
)

// Model is the main Bubbletea model
type Model struct {
	ctx   context.Context
	svc   RosterService
	clip  func(string) error
	state State

	snap    *roster.Snapshot
	pane    Pane
	cursors [paneCount]int

	form    memberForm
	confirm *confirmation
	export  string
	importA textarea.Model

	status string
	err    error
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		m.clip = write
	}
}

// New creates a console bound to the roster service.
func New(ctx context.Context, svc RosterService, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "name:job:power:relayCount"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(10)

	m := Model{
		ctx:     ctx,
		svc:     svc,
		clip:    clipboard.WriteAll,
		state:   StateBrowse,
		snap:    &roster.Snapshot{},
		importA: ta,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.loadSnapshot()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.importA.SetWidth(max(20, msg.Width-8))
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snap = msg.snap
		m.clampCursors()
		return m, nil

	case resultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		} else {
			m.status = ""
		}
		return m, m.loadSnapshot()

	case exportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.copyErr != nil {
			m.export = msg.text
			m.state = StateExport
			m.status = "Clipboard unavailable; roster shown below"
			return m, nil
		}
		m.status = "Knight roster copied to clipboard"
		return m, nil
	}

	switch m.state {
	case StateForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	case StateImport:
		var cmd tea.Cmd
		m.importA, cmd = m.importA.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	switch m.state {
	case StateForm:
		return m.renderForm()
	case StateConfirm:
		return m.renderConfirm()
	case StateExport:
		return m.renderExport()
	case StateImport:
		return m.renderImport()
	default:
		return m.renderBrowse()
	}
}

// State reports the current view state.
func (m Model) State() State {
	return m.state
}

// Status returns the last status message and error shown to the operator.
func (m Model) Status() (string, error) {
	return m.status, m.err
}

func (m Model) rowCount(p Pane) int {
	switch p {
	case PaneKnights:
		return len(m.snap.Knights)
	case PaneClients:
		return len(m.snap.Clients)
	case PaneParties:
		return len(m.snap.Parties)
	}
	return 0
}

func (m *Model) clampCursors() {
	for p := Pane(0); p < paneCount; p++ {
		n := m.rowCount(p)
		if m.cursors[p] >= n {
			m.cursors[p] = max(0, n-1)
		}
	}
}

func (m Model) currentKnight() (roster.KnightView, bool) {
	i := m.cursors[PaneKnights]
	if m.pane != PaneKnights || i >= len(m.snap.Knights) {
		return roster.KnightView{}, false
	}
	return m.snap.Knights[i], true
}

func (m Model) currentClient() (roster.ClientView, bool) {
	i := m.cursors[PaneClients]
	if m.pane != PaneClients || i >= len(m.snap.Clients) {
		return roster.ClientView{}, false
	}
	return m.snap.Clients[i], true
}

func (m Model) currentParty() (roster.Party, bool) {
	i := m.cursors[PaneParties]
	if m.pane != PaneParties || i >= len(m.snap.Parties) {
		return roster.Party{}, false
	}
	return m.snap.Parties[i], true
}
