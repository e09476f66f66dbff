package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rpggio/knightbus/internal/domain/roster"
)

const browseHelp = "tab pane • ↑/↓ move • space select • u clear • a add • e edit • d delete • f form party • c complete • o duty • x export • i import • q quit"

func (m Model) paneWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(24, m.width/int(paneCount)-2)
}

func (m Model) renderBrowse() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("knightbus"))
	b.WriteString("  ")
	b.WriteString(DimmedStyle.Render(fmt.Sprintf("selected: %d knights, %d clients",
		len(m.snap.Selection.KnightIDs), len(m.snap.Selection.ClientIDs))))
	b.WriteString("\n\n")

	panes := []string{
		m.renderPane(PaneKnights, "Knights", m.knightRows()),
		m.renderPane(PaneClients, "Clients", m.clientRows()),
		m.renderPane(PaneParties, "Parties", m.partyRows()),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(browseHelp))
	return b.String()
}

func (m Model) renderPane(p Pane, title string, rows []string) string {
	style := PaneStyle
	if m.pane == p {
		style = ActivePaneStyle
	}

	var b strings.Builder
	b.WriteString(PaneTitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(rows))))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(DimmedStyle.Render("none"))
	}
	for i, row := range rows {
		if m.pane == p && i == m.cursors[p] {
			b.WriteString(CursorStyle.Render("▸ " + row))
		} else {
			b.WriteString(ItemStyle.Render("  " + row))
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return style.Width(m.paneWidth()).Render(b.String())
}

func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func statusStyle(label string) lipgloss.Style {
	switch {
	case label == "Waiting":
		return WaitingStyle
	case strings.HasPrefix(label, "Party #"):
		return InPartyStyle
	default:
		return DimmedStyle
	}
}

func (m Model) knightRows() []string {
	rows := make([]string, 0, len(m.snap.Knights))
	for _, k := range m.snap.Knights {
		rows = append(rows, fmt.Sprintf("%s %s · %s · %s · relays %d · %s",
			checkbox(k.Selected), k.Name, k.Job, k.PowerDisplay, k.RelayCount,
			statusStyle(k.StatusLabel).Render(k.StatusLabel)))
	}
	return rows
}

func (m Model) clientRows() []string {
	rows := make([]string, 0, len(m.snap.Clients))
	for _, c := range m.snap.Clients {
		row := fmt.Sprintf("%s %s · %s · %s · %s",
			checkbox(c.Selected), c.Name, c.Job, c.PowerDisplay,
			statusStyle(c.StatusLabel).Render(c.StatusLabel))
		if c.Notes != "" {
			row += DimmedStyle.Render(" · " + c.Notes)
		}
		rows = append(rows, row)
	}
	return rows
}

func (m Model) partyRows() []string {
	rows := make([]string, 0, len(m.snap.Parties))
	for _, p := range m.snap.Parties {
		rows = append(rows, fmt.Sprintf("%s: %s ⇄ %s",
			roster.PartyLabel(p.ID), knightNames(p.Knights), clientNames(p.Clients)))
	}
	return rows
}

func knightNames(knights []roster.Knight) string {
	names := make([]string, 0, len(knights))
	for _, k := range knights {
		names = append(names, k.Name)
	}
	return strings.Join(names, ", ")
}

func clientNames(clients []roster.Client) string {
	names := make([]string, 0, len(clients))
	for _, c := range clients {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return ErrorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return StatusStyle.Render(m.status)
	}
	return ""
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.form.title()))
	b.WriteString("\n\n")
	for i, input := range m.form.inputs {
		label := fmt.Sprintf("%-6s", fieldLabels[i])
		if i == m.form.focus {
			b.WriteString(CursorStyle.Render("▸ " + label))
		} else {
			b.WriteString(DimmedStyle.Render("  " + label))
		}
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	if m.form.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.form.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab next • enter on last field saves • esc cancel"))
	return BoxStyle.Render(b.String())
}

func (m Model) renderConfirm() string {
	prompt := ""
	if m.confirm != nil {
		prompt = m.confirm.prompt
	}
	return BoxStyle.Render(prompt + "\n\n" + HelpStyle.Render("y confirm • n cancel"))
}

func (m Model) renderExport() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Knight roster"))
	b.WriteString("\n")
	b.WriteString(DimmedStyle.Render(m.status))
	b.WriteString("\n\n")
	if m.export == "" {
		b.WriteString(DimmedStyle.Render("(no knights)"))
	} else {
		b.WriteString(m.export)
	}
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("press any key to return"))
	return BoxStyle.Render(b.String())
}

func (m Model) renderImport() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Import knights"))
	b.WriteString("\n")
	b.WriteString(DimmedStyle.Render("Paste name:job:power:relayCount lines. Imported knights start off duty."))
	b.WriteString("\n\n")
	b.WriteString(m.importA.View())
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("ctrl+s import • esc cancel"))
	return BoxStyle.Render(b.String())
}
