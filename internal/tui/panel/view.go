package panel

import (
	"fmt"
	"strings"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderQuickAccess())
	b.WriteString(m.renderTree())
	b.WriteString(m.renderHistory())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	// Scan registers the marked zones for mouse hit-testing and strips the
	// invisible markers.
	return m.zones.Scan(b.String())
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("CmdVault")
	if u := m.svc.State().Username; u != "" {
		title += mutedStyle.Render("  " + u)
	}
	if m.syncing {
		title += statusStyle.Render("  ⇅ syncing")
	}
	return title
}

func sectionHeader(collapsed bool, label string) string {
	marker := "▾ "
	if collapsed {
		marker = "▸ "
	}
	return sectionStyle.Render(marker + label)
}

func (m Model) renderQuickAccess() string {
	pinned := m.svc.Store().Pinned()
	collapsed := m.svc.State().QACollapsed

	var b strings.Builder
	header := sectionHeader(collapsed, fmt.Sprintf("Quick Access (%d/%d)", len(pinned), models.MaxPinned))
	b.WriteString(m.zones.Mark("sec:qa", header))
	b.WriteString("\n")
	if collapsed {
		return b.String()
	}
	if len(pinned) == 0 {
		b.WriteString(mutedStyle.Render("  no pinned commands"))
		b.WriteString("\n")
		return b.String()
	}
	for _, n := range pinned {
		line := "  " + pinnedStyle.Render("★ ") + n.Name
		b.WriteString(m.zones.Mark("pin:"+n.ID, line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTree() string {
	collapsed := m.svc.State().CommandsCollapsed

	var b strings.Builder
	header := sectionHeader(collapsed, "Commands")
	b.WriteString(m.zones.Mark("sec:commands", header))
	b.WriteString("\n")
	if collapsed {
		return b.String()
	}
	if len(m.rows) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(mutedStyle.Render("  no matches"))
		} else {
			b.WriteString(mutedStyle.Render("  empty vault"))
		}
		b.WriteString("\n")
		return b.String()
	}

	start := m.scrollOffset
	end := start + m.viewportHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}
	if len(m.rows) > end-start {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d-%d of %d)", start+1, end, len(m.rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]
	n := r.Node

	cursor := "  "
	if i == m.cursor {
		cursor = headerStyle.Render("▶ ")
	}
	indent := strings.Repeat("  ", r.Depth)

	var body string
	if n.IsFolder() {
		marker := "▾ "
		if n.Collapsed {
			marker = "▸ "
		}
		name := colorStyle(m.svc.Store().EffectiveColor(n.ID)).Render(n.Name)
		body = marker + name + mutedStyle.Render(fmt.Sprintf(" (%d)", tree.CountCommands(n)))
	} else {
		pin := ""
		if n.Pinned {
			pin = pinnedStyle.Render("★ ")
		}
		preview := n.DisplayCmd()
		if maxLen := m.width - len(indent) - len(n.Name) - 10; maxLen > 4 && len(preview) > maxLen {
			preview = preview[:maxLen-1] + "…"
		}
		body = pin + n.Name + mutedStyle.Render("  "+preview)
		if len(n.Tags) > 0 {
			body += mutedStyle.Render("  #" + strings.Join(n.Tags, " #"))
		}
	}

	line := cursor + indent + body
	switch {
	case m.engine.Dragging() && m.hoverID == n.ID:
		line = m.dropIndicator(line)
	case m.cutMode && m.inClipboard(n.ID):
		line = cutStyle.Render(line)
	case m.sel.Contains(n.ID):
		line = selectedStyle.Render(line)
	}
	return m.zones.Mark("row:"+n.ID, line)
}

func (m Model) dropIndicator(line string) string {
	switch m.hoverPos {
	case tree.Before:
		return dropStyle.Render("⤒ " + line)
	case tree.After:
		return dropStyle.Render("⤓ " + line)
	default:
		return dropStyle.Render("→ " + line)
	}
}

func (m *Model) inClipboard(id string) bool {
	for _, c := range m.clipboard {
		if c == id {
			return true
		}
	}
	return false
}

func (m Model) renderHistory() string {
	entries := m.svc.State().History
	collapsed := m.svc.State().HistoryCollapsed

	var b strings.Builder
	header := sectionHeader(collapsed, fmt.Sprintf("History (%d)", len(entries)))
	b.WriteString(m.zones.Mark("sec:history", header))
	b.WriteString("\n")
	if collapsed {
		return b.String()
	}
	for i, e := range entries {
		line := "  " + mutedStyle.Render(e.Cmd)
		b.WriteString(m.zones.Mark(fmt.Sprintf("hist:%d", i), line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	switch m.mode {
	case modeConfirmDelete:
		return errorStyle.Render(m.pendingLabel + "? (y/N)")
	case modeRename, modeNewFolder, modeNewCommandName, modeNewCommandBody:
		return m.fieldInput.View()
	case modeVarFill:
		return fmt.Sprintf("%s (%d/%d): %s",
			m.varNames[m.varIndex], m.varIndex+1, len(m.varNames), m.fieldInput.View())
	}
	if m.statusMessage != "" {
		if m.statusIsErr {
			return errorStyle.Render(m.statusMessage)
		}
		return statusStyle.Render(m.statusMessage)
	}
	return m.help.View(m.keys)
}
