package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"plateview/internal/audit"
	"plateview/internal/journal"
	"plateview/internal/review"
)

// Update routes messages. Keystrokes go to the focused input first; action
// keys only fire while no input has focus.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		return m.handleTick()

	case queueFetchedMsg:
		return m.handleQueueFetched(msg)

	case decisionDoneMsg:
		return m.handleDecisionDone(msg)

	case bulkDoneMsg:
		return m.handleBulkDone(msg)

	case auditDoneMsg:
		return m.handleAuditDone(msg)

	case recentMsg:
		m.recent = msg.entries
		return m, nil
	}
	return m, nil
}

// updateEditing owns keystrokes while the text input has focus. Escape
// abandons the edit, enter commits it; everything else is text.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		action := m.pendingAction
		mode := m.editing
		m.closeInput()

		var opts review.DecisionOptions
		if mode == editCorrection {
			opts.CorrectedVRM = audit.NormalizeVRM(value)
		} else {
			opts.Notes = value
		}
		return m, m.submit(action, opts)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) closeInput() {
	m.editing = editNone
	m.pendingAction = ""
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.ctl.Snapshot()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.ctl.Close()
		m.rec.Close()
		m.log.Info("review session closed")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case msg.String() == "esc":
		m.showHelp = false
		m.banner = ""
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if snap.Advance() {
			return m, m.maybeReconstruct()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if snap.Retreat() {
			return m, m.maybeReconstruct()
		}
		return m, nil

	case key.Matches(msg, m.keys.First):
		snap.JumpFirst()
		return m, m.maybeReconstruct()

	case key.Matches(msg, m.keys.Last):
		snap.JumpLast()
		return m, m.maybeReconstruct()

	case key.Matches(msg, m.keys.SkipItem):
		m.ctl.Skip()
		return m, m.maybeReconstruct()

	case key.Matches(msg, m.keys.Approve):
		return m, m.submit(review.ActionApprove, review.DecisionOptions{})

	case key.Matches(msg, m.keys.Discard):
		return m, m.submit(review.ActionDiscard, review.DecisionOptions{})

	case key.Matches(msg, m.keys.Reject):
		return m.openInput(editNote, review.ActionReject, "")

	case key.Matches(msg, m.keys.Correct):
		current, ok := m.ctl.Current()
		if !ok {
			return m, nil
		}
		return m.openInput(editCorrection, review.ActionCorrect, current.DisplayVRM())

	case key.Matches(msg, m.keys.Toggle):
		if current, ok := m.ctl.Current(); ok {
			m.ctl.Selection().Toggle(current.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.ctl.Selection().SelectAll(snap.Items())
		return m, nil

	case key.Matches(msg, m.keys.ClearSel):
		m.ctl.Selection().Clear()
		return m, nil

	case key.Matches(msg, m.keys.BulkOK):
		return m, m.submitBulk(review.ActionApprove)

	case key.Matches(msg, m.keys.BulkDrop):
		return m, m.submitBulk(review.ActionDiscard)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh(true)

	case key.Matches(msg, m.keys.Pause):
		m.polling = !m.polling
		return m, nil

	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		return m, nil
	}
	return m, nil
}

// openInput focuses the text input for a correction or note. While it is
// open, action keys type into it instead of firing.
func (m Model) openInput(mode editMode, action review.Action, initial string) (tea.Model, tea.Cmd) {
	if _, ok := m.ctl.Current(); !ok {
		return m, nil
	}
	m.editing = mode
	m.pendingAction = action
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) startRefresh(keepPosition bool) tea.Cmd {
	ticket := m.ctl.BeginRefresh(keepPosition)
	m.fetching = true
	m.lastFetch = ticket
	return fetchCmd(ticket)
}

// maybeReconstruct kicks off an audit reconstruction when the focused item
// changed. Begin cancels whatever was still running for the previous item.
func (m *Model) maybeReconstruct() tea.Cmd {
	current, ok := m.ctl.Current()
	if !ok {
		if m.auditFor != "" {
			m.rec.Begin(audit.Key{})
			m.auditFor = ""
			m.auditEntries = nil
			m.auditLoading = false
		}
		return nil
	}
	if current.ID == m.auditFor {
		return nil
	}
	m.auditFor = current.ID
	m.auditEntries = nil
	m.auditLoading = true
	return auditCmd(m.rec.Begin(current.CorrelationKey()))
}

func (m *Model) submit(action review.Action, opts review.DecisionOptions) tea.Cmd {
	current, ok := m.ctl.Current()
	if !ok {
		return nil
	}
	ticket, err := m.ctl.BeginDecision(action, opts)
	if err != nil {
		m.banner = err.Error()
		m.bannerOK = false
		return nil
	}
	m.banner = ""
	return decisionCmd(ticket, current.DisplayVRM(), opts.Notes, opts.CorrectedVRM)
}

func (m *Model) submitBulk(action review.Action) tea.Cmd {
	ticket, err := m.ctl.BeginBulk(action, "")
	if err != nil {
		m.banner = err.Error()
		m.bannerOK = false
		return nil
	}
	m.banner = ""
	return bulkCmd(ticket)
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	cmds := []tea.Cmd{tickCmd(m.pollInterval())}
	if m.polling && m.editing == editNone && !m.fetching {
		cmds = append(cmds, m.startRefresh(true))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleQueueFetched(msg queueFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.ticket == m.lastFetch {
		m.fetching = false
		m.lastFetch = nil
	}
	outcome, err := m.ctl.FinishRefresh(msg.ticket, msg.page, msg.err)
	switch outcome {
	case review.RefreshApplied:
		return m, m.maybeReconstruct()
	case review.RefreshFailed:
		m.banner = err.Error()
		m.bannerOK = false
	}
	return m, nil
}

func (m Model) handleDecisionDone(msg decisionDoneMsg) (tea.Model, tea.Cmd) {
	outcome, err := m.ctl.FinishDecision(msg.ticket, msg.err)
	switch outcome {
	case review.DecisionApplied:
		m.banner = fmt.Sprintf("%s: %s", msg.ticket.Action(), msg.vrm)
		m.bannerOK = true
		cmds := []tea.Cmd{m.maybeReconstruct()}
		if m.store != nil {
			cmds = append(cmds, journalCmd(m.store, m.log, m.journalEntry(msg, journal.OutcomeApplied)))
		}
		return m, tea.Batch(cmds...)
	case review.DecisionFailed:
		m.banner = err.Error()
		m.bannerOK = false
		if m.store != nil {
			return m, journalCmd(m.store, m.log, m.journalEntry(msg, journal.OutcomeRejected))
		}
	}
	return m, nil
}

func (m Model) journalEntry(msg decisionDoneMsg, outcome journal.Outcome) journal.Entry {
	return journal.Entry{
		ItemID:       msg.ticket.ItemID(),
		Surface:      string(m.ctl.Filter().Surface),
		Action:       string(msg.ticket.Action()),
		VRM:          msg.vrm,
		CorrectedVRM: msg.corr,
		Notes:        msg.notes,
		Outcome:      outcome,
	}
}

func (m Model) handleBulkDone(msg bulkDoneMsg) (tea.Model, tea.Cmd) {
	outcome, err := m.ctl.FinishBulk(msg.ticket, msg.err)
	switch outcome {
	case review.DecisionApplied:
		m.banner = fmt.Sprintf("%s: %d items", msg.ticket.Action(), len(msg.ticket.IDs()))
		m.bannerOK = true
		cmds := []tea.Cmd{m.maybeReconstruct()}
		if m.store != nil {
			cmds = append(cmds, journalCmd(m.store, m.log, m.bulkJournalEntries(msg.ticket, journal.OutcomeApplied)...))
		}
		return m, tea.Batch(cmds...)
	case review.DecisionFailed:
		m.banner = err.Error()
		m.bannerOK = false
		if m.store != nil {
			return m, journalCmd(m.store, m.log, m.bulkJournalEntries(msg.ticket, journal.OutcomeRejected)...)
		}
	}
	return m, nil
}

func (m Model) bulkJournalEntries(t *review.BulkTicket, outcome journal.Outcome) []journal.Entry {
	entries := make([]journal.Entry, 0, len(t.IDs()))
	for _, id := range t.IDs() {
		entries = append(entries, journal.Entry{
			ItemID:  id,
			Surface: string(m.ctl.Filter().Surface),
			Action:  string(t.Action()),
			Outcome: outcome,
		})
	}
	return entries
}

func (m Model) handleAuditDone(msg auditDoneMsg) (tea.Model, tea.Cmd) {
	if !m.rec.Accept(msg.job) {
		return m, nil
	}
	m.auditLoading = false
	if msg.err == nil {
		m.auditEntries = msg.entries
	}
	return m, nil
}
