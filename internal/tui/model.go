package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"plateview/internal/audit"
	"plateview/internal/journal"
	"plateview/internal/review"
)

// editMode says where keystrokes go. While an input is focused, action keys
// are text, not commands.
type editMode int

const (
	editNone editMode = iota
	editCorrection
	editNote
)

const recentLimit = 5

// Params wires the program together. Journal may be nil; recording is then
// skipped.
type Params struct {
	Controller    *review.Controller
	Reconstructor *audit.Reconstructor
	Journal       *journal.Store
	Logger        *slog.Logger

	// PollInterval drives background refresh while items are queued;
	// IdlePollInterval takes over when the queue is empty.
	PollInterval     time.Duration
	IdlePollInterval time.Duration
}

// Model is the bubbletea state for the review surface.
type Model struct {
	ctl   *review.Controller
	rec   *audit.Reconstructor
	store *journal.Store
	log   *slog.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model
	spin  spinner.Model

	editing       editMode
	pendingAction review.Action

	activePoll time.Duration
	idlePoll   time.Duration
	polling    bool

	width  int
	height int

	showHelp    bool
	showDetails bool

	banner   string
	bannerOK bool

	fetching  bool
	lastFetch *review.FetchTicket

	auditFor     string
	auditLoading bool
	auditEntries []audit.Entry

	recent []journal.Entry

	quitting bool
}

// New builds the model. The controller and reconstructor are owned by the
// program from here on; Close is called when the operator quits.
func New(p Params) Model {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	input := textinput.New()
	input.CharLimit = 64
	input.Prompt = "> "

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	activePoll := p.PollInterval
	if activePoll <= 0 {
		activePoll = 15 * time.Second
	}
	idlePoll := p.IdlePollInterval
	if idlePoll < activePoll {
		idlePoll = activePoll
	}

	return Model{
		ctl:        p.Controller,
		rec:        p.Reconstructor,
		store:      p.Journal,
		log:        logger.With("component", "tui"),
		keys:       defaultKeyMap(),
		help:       help.New(),
		input:      input,
		spin:       spin,
		activePoll: activePoll,
		idlePoll:   idlePoll,
		polling:    true,
	}
}

// Init kicks off the initial fetch, the poll timer, and the recent strip.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startRefresh(false), tickCmd(m.activePoll), m.spin.Tick}
	if m.store != nil {
		cmds = append(cmds, recentCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// pollInterval picks the cadence for the next tick.
func (m Model) pollInterval() time.Duration {
	if m.ctl.Snapshot().Empty() {
		return m.idlePoll
	}
	return m.activePoll
}
