package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"plateview/internal/audit"
	"plateview/internal/journal"
	"plateview/internal/review"
)

// queueFetchedMsg carries a settled queue fetch back to the event loop.
type queueFetchedMsg struct {
	ticket *review.FetchTicket
	page   review.Page
	err    error
}

// decisionDoneMsg carries a settled single-item submission.
type decisionDoneMsg struct {
	ticket *review.DecisionTicket
	vrm    string
	notes  string
	corr   string
	err    error
}

// bulkDoneMsg carries a settled batch submission.
type bulkDoneMsg struct {
	ticket *review.BulkTicket
	err    error
}

// auditDoneMsg carries a settled audit reconstruction.
type auditDoneMsg struct {
	job     *audit.Job
	entries []audit.Entry
	err     error
}

// recentMsg refreshes the journaled recent-actions strip.
type recentMsg struct {
	entries []journal.Entry
}

// tickMsg drives polling.
type tickMsg time.Time

func fetchCmd(ticket *review.FetchTicket) tea.Cmd {
	return func() tea.Msg {
		page, err := ticket.Run()
		return queueFetchedMsg{ticket: ticket, page: page, err: err}
	}
}

func decisionCmd(ticket *review.DecisionTicket, vrm, notes, corr string) tea.Cmd {
	return func() tea.Msg {
		err := ticket.Run()
		return decisionDoneMsg{ticket: ticket, vrm: vrm, notes: notes, corr: corr, err: err}
	}
}

func bulkCmd(ticket *review.BulkTicket) tea.Cmd {
	return func() tea.Msg {
		return bulkDoneMsg{ticket: ticket, err: ticket.Run()}
	}
}

func auditCmd(job *audit.Job) tea.Cmd {
	return func() tea.Msg {
		entries, err := job.Run()
		return auditDoneMsg{job: job, entries: entries, err: err}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// journalCmd records actions best-effort and reloads the recent strip. A
// journal failure is logged, never surfaced to the operator.
func journalCmd(store *journal.Store, log *slog.Logger, entries ...journal.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, entry := range entries {
			if err := store.Record(ctx, entry); err != nil {
				log.Warn("journal write failed", "item", entry.ItemID, "action", entry.Action, "error", err)
			}
		}
		recent, err := store.Recent(ctx, recentLimit)
		if err != nil {
			log.Warn("journal read failed", "error", err)
			return recentMsg{}
		}
		return recentMsg{entries: recent}
	}
}

func recentCmd(store *journal.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := store.Recent(ctx, recentLimit)
		if err != nil {
			return recentMsg{}
		}
		return recentMsg{entries: entries}
	}
}
