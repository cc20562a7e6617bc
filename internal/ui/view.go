package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/treenav/internal/format"
	"github.com/marcus/treenav/internal/nav"
	"github.com/marcus/treenav/internal/tree"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	dirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	toastStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("113"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
)

// chromeHeight is the fixed number of non-listing lines: title plus the
// status line at the bottom.
const chromeHeight = 2

// visibleHeight is how many listing lines fit the current window.
func (m *Model) visibleHeight() int {
	h := m.height - chromeHeight
	if m.cfg.UI.ShowFooter {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the tree.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteByte('\n')

	entries := m.visibleEntries()
	h := m.visibleHeight()
	for i := 0; i < h; i++ {
		idx := m.scroll + i
		if idx < len(entries) {
			b.WriteString(m.renderLine(&entries[idx], idx == m.cursor))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.renderStatus())
	if m.cfg.UI.ShowFooter {
		b.WriteByte('\n')
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

// visibleEntries is the listing to draw: the growing in-flight entries while
// a listing streams in, the installed snapshot otherwise.
func (m *Model) visibleEntries() []tree.Entry {
	if m.ctx.State() == nav.StateListing && len(m.inflightEntries) > 0 {
		return m.inflightEntries
	}
	if s := m.ctx.Snapshot(); s != nil {
		return s.Entries
	}
	return nil
}

func (m *Model) renderTitle() string {
	title := m.ctx.Root()
	suffix := fmt.Sprintf(" (depth %d)", m.ctx.DepthLimit())
	if m.ctx.State() == nav.StateListing {
		suffix += " …"
	}
	line := titleStyle.Render(ansi.Truncate(title, max(1, m.width-runewidth.StringWidth(suffix)), "…")) +
		dimStyle.Render(suffix)
	return line
}

// renderLine draws one entry, coloring only the icon glyph's byte range.
func (m *Model) renderLine(e *tree.Entry, selected bool) string {
	var line string
	if icon, ok := m.formatter.Icon(e); ok && icon.Highlight != "" {
		indent := e.Display[:e.IconOffset]
		glyphEnd := e.IconOffset + len(icon.Glyph)
		rest := e.Display[glyphEnd:]
		glyphStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(icon.Highlight))
		name := rest
		if e.Kind == tree.KindDirectory {
			name = dirStyle.Render(rest)
		}
		line = indent + glyphStyle.Render(e.Display[e.IconOffset:glyphEnd]) + name
	} else if e.Kind == tree.KindDirectory {
		line = e.Display[:len(e.Display)-len(e.Name)-1] + dirStyle.Render(e.Name+"/")
	} else {
		line = e.Display
	}

	line = ansi.Truncate(line, m.width, "…")
	if selected {
		return cursorStyle.Render(ansi.Strip(line))
	}
	return line
}

// renderStatus draws the prompt, toast or entry count, in that priority.
func (m *Model) renderStatus() string {
	switch m.prompt {
	case promptCreate:
		return promptStyle.Render("create: ") + m.promptInput.View()
	case promptRename:
		return promptStyle.Render("rename: ") + m.promptInput.View()
	case promptDelete:
		return promptStyle.Render(fmt.Sprintf("delete %s? (y/n)", m.promptTarget))
	}
	if m.toast != "" {
		if m.toastErr {
			return errStyle.Render(m.toast)
		}
		return toastStyle.Render(m.toast)
	}

	snap := m.ctx.Snapshot()
	if snap == nil {
		return dimStyle.Render("listing…")
	}
	// Width is derived fresh from the snapshot every render, never stored.
	return dimStyle.Render(fmt.Sprintf("%d entries · %d cols", snap.Len(), format.Width(snap)))
}

func (m *Model) renderFooter() string {
	var parts []string
	for _, b := range m.keys.Bindings() {
		parts = append(parts, b.Key+":"+b.Action.String())
	}
	return footerStyle.Render(ansi.Truncate(strings.Join(parts, "  "), m.width, "…"))
}
