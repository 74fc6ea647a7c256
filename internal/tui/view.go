package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"plateview/internal/journal"
	"plateview/internal/review"
)

const timeFormat = "2006-01-02 15:04:05"

// View renders the whole surface. Layout is line oriented: header, queue,
// optional detail pane, audit timeline, recent strip, prompt, footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.queueView())

	if m.showDetails {
		b.WriteString("\n")
		b.WriteString(m.detailView())
	}

	b.WriteString("\n")
	b.WriteString(m.auditView())

	if len(m.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(m.recentView())
	}

	if m.editing != editNone {
		b.WriteString("\n")
		b.WriteString(m.promptView())
	}

	if m.banner != "" {
		b.WriteString("\n")
		if m.bannerOK {
			b.WriteString(noticeStyle.Render(m.banner))
		} else {
			b.WriteString(errorStyle.Render(m.banner))
		}
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) headerView() string {
	filter := m.ctl.Filter()
	snap := m.ctl.Snapshot()

	title := titleStyle.Render(fmt.Sprintf("plateview · %s", filter.Surface))

	parts := []string{fmt.Sprintf("%d of %d loaded", snap.Len(), snap.Total())}
	if len(filter.SiteIDs) > 0 {
		parts = append(parts, "sites "+strings.Join(filter.SiteIDs, ","))
	}
	if filter.Status != "" {
		parts = append(parts, "status "+filter.Status)
	}
	if filter.Validation != "" {
		parts = append(parts, "validation "+filter.Validation)
	}
	if n := m.ctl.Selection().Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if !m.polling {
		parts = append(parts, "polling paused")
	}
	if m.fetching {
		parts = append(parts, m.spin.View()+"refreshing")
	}
	return title + "  " + statusStyle.Render(strings.Join(parts, " · "))
}

// queueRows bounds the visible list to the terminal height, leaving room for
// the panes below.
func (m Model) queueRows() int {
	rows := m.height - 14
	if rows < 5 {
		rows = 5
	}
	if rows > 20 {
		rows = 20
	}
	return rows
}

func (m Model) queueView() string {
	snap := m.ctl.Snapshot()
	if snap.Empty() {
		return dimStyle.Render("  queue is empty")
	}

	rows := m.queueRows()
	start := snap.Cursor() - rows/2
	if start > snap.Len()-rows {
		start = snap.Len() - rows
	}
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > snap.Len() {
		end = snap.Len()
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		item, _ := snap.At(i)
		b.WriteString(m.rowView(i, item))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) rowView(index int, item review.Item) string {
	cursor := "  "
	if index == m.ctl.Snapshot().Cursor() {
		cursor = "> "
	}
	mark := "[ ]"
	if m.ctl.Selection().Has(item.ID) {
		mark = "[x]"
	}

	label := item.Reason
	if item.Kind == review.KindPlate {
		label = fmt.Sprintf("read %.0f%%", item.Confidence*100)
	}

	line := fmt.Sprintf("%s%s %-10s %-8s %-19s %s",
		cursor, mark, item.DisplayVRM(), item.SiteID,
		item.ObservedAt.Format(timeFormat), label)

	if m.ctl.Submitting(item.ID) {
		line += pendingStyle.Render("  submitting")
	}

	switch {
	case index == m.ctl.Snapshot().Cursor():
		return cursorStyle.Render(line)
	case m.ctl.Selection().Has(item.ID):
		return selectedStyle.Render(line)
	default:
		return line
	}
}

func (m Model) detailView() string {
	current, ok := m.ctl.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "id          %s\n", current.ID)
	fmt.Fprintf(&b, "plate       %s\n", current.DisplayVRM())
	fmt.Fprintf(&b, "site        %s\n", current.SiteID)
	if current.Status != "" {
		fmt.Fprintf(&b, "status      %s\n", current.Status)
	}
	if current.Validation != "" {
		fmt.Fprintf(&b, "validation  %s\n", current.Validation)
	}
	if !current.EntryTime.IsZero() {
		fmt.Fprintf(&b, "entry       %s\n", current.EntryTime.Format(timeFormat))
	}
	if !current.ExitTime.IsZero() {
		fmt.Fprintf(&b, "exit        %s\n", current.ExitTime.Format(timeFormat))
	}
	if current.SessionID != "" {
		fmt.Fprintf(&b, "session     %s\n", current.SessionID)
	}
	if current.DecisionID != "" {
		fmt.Fprintf(&b, "decision    %s\n", current.DecisionID)
	}
	if len(current.Payload) > 0 {
		var pretty map[string]any
		if err := json.Unmarshal(current.Payload, &pretty); err == nil {
			raw, _ := json.MarshalIndent(pretty, "", "  ")
			b.Write(raw)
		}
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) auditView() string {
	header := titleStyle.Render("audit timeline")
	switch {
	case m.auditLoading:
		return header + "\n" + dimStyle.Render("  "+m.spin.View()+"reconstructing")
	case m.auditFor == "":
		return header + "\n" + dimStyle.Render("  no item in focus")
	case len(m.auditEntries) == 0:
		return header + "\n" + dimStyle.Render("  no audit entries found")
	}

	limit := len(m.auditEntries)
	if limit > 8 {
		limit = 8
	}
	var b strings.Builder
	b.WriteString(header)
	for _, entry := range m.auditEntries[:limit] {
		line := fmt.Sprintf("  %s %-8s %s",
			entry.Timestamp.Format(timeFormat), entry.Stream, entry.Action)
		if entry.Actor != "" {
			line += " by " + entry.Actor
		}
		b.WriteString("\n" + line)
	}
	if len(m.auditEntries) > limit {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  … %d more", len(m.auditEntries)-limit)))
	}
	return b.String()
}

func (m Model) recentView() string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("recent:"))
	for _, entry := range m.recent {
		label := fmt.Sprintf(" %s %s", entry.Action, entry.VRM)
		if entry.VRM == "" {
			label = fmt.Sprintf(" %s %s", entry.Action, entry.ItemID)
		}
		if entry.Outcome == journal.OutcomeRejected {
			b.WriteString(errorStyle.Render(label))
		} else {
			b.WriteString(dimStyle.Render(label))
		}
	}
	return b.String()
}

func (m Model) promptView() string {
	label := "note (enter to submit, esc to cancel)"
	if m.editing == editCorrection {
		label = "corrected plate (enter to submit, esc to cancel)"
	}
	return promptStyle.Render(label) + "\n" + m.input.View()
}
