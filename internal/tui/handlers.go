package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/knightbus/internal/domain/roster"
)

// confirmation is a pending destructive command awaiting y/n.
type confirmation struct {
	prompt string
	run    tea.Cmd
}

// handleKeyPress processes keyboard input based on current state
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StateForm:
		return m.handleFormKey(msg)
	case StateConfirm:
		return m.handleConfirmKey(msg)
	case StateExport:
		// Any key closes the export view
		m.state = StateBrowse
		m.export = ""
		return m, nil
	case StateImport:
		return m.handleImportKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab", "right", "l":
		m.pane = (m.pane + 1) % paneCount

	case "shift+tab", "left", "h":
		m.pane = (m.pane + paneCount - 1) % paneCount

	case "up", "k":
		if m.cursors[m.pane] > 0 {
			m.cursors[m.pane]--
		}

	case "down", "j":
		if m.cursors[m.pane] < m.rowCount(m.pane)-1 {
			m.cursors[m.pane]++
		}

	case " ", "s":
		if k, ok := m.currentKnight(); ok {
			return m, m.toggleSelection(roster.KindKnight, k.ID)
		}
		if c, ok := m.currentClient(); ok {
			return m, m.toggleSelection(roster.KindClient, c.ID)
		}

	case "a":
		switch m.pane {
		case PaneKnights:
			return m.openForm(newMemberForm(roster.KindKnight))
		case PaneClients:
			return m.openForm(newMemberForm(roster.KindClient))
		}

	case "e", "enter":
		if k, ok := m.currentKnight(); ok {
			return m.openForm(editKnightForm(k.Knight))
		}
		if c, ok := m.currentClient(); ok {
			return m.openForm(editClientForm(c.Client))
		}

	case "d":
		if k, ok := m.currentKnight(); ok {
			return m.ask(fmt.Sprintf("Delete knight %s?", k.Name), m.deleteMember(roster.KindKnight, k.ID, k.Name))
		}
		if c, ok := m.currentClient(); ok {
			return m.ask(fmt.Sprintf("Delete client %s?", c.Name), m.deleteMember(roster.KindClient, c.ID, c.Name))
		}

	case "u":
		return m, m.clearSelection()

	case "f":
		return m, m.formParty()

	case "c":
		if p, ok := m.currentParty(); ok {
			return m.ask(fmt.Sprintf("Complete the mission of %s?", roster.PartyLabel(p.ID)), m.completeMission(p.ID))
		}

	case "o":
		if k, ok := m.currentKnight(); ok {
			return m, m.toggleDuty(k.ID)
		}

	case "x":
		return m, m.exportRoster()

	case "i":
		m.state = StateImport
		m.importA.Reset()
		return m, m.importA.Focus()

	case "r":
		return m, m.loadSnapshot()
	}
	return m, nil
}

func (m Model) openForm(f memberForm) (tea.Model, tea.Cmd) {
	m.form = f
	m.state = StateForm
	return m, m.form.inputs[0].Focus()
}

func (m Model) ask(prompt string, run tea.Cmd) (tea.Model, tea.Cmd) {
	m.confirm = &confirmation{prompt: prompt, run: run}
	m.state = StateConfirm
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateBrowse
		return m, nil

	case "tab", "down":
		return m, m.form.setFocus(m.form.focus + 1)

	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focus - 1)

	case "enter":
		if !m.form.lastField() {
			return m, m.form.setFocus(m.form.focus + 1)
		}
		if _, err := m.form.values(); err != nil {
			m.form.err = err
			return m, nil
		}
		m.state = StateBrowse
		return m, m.submitForm(m.form)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	switch msg.String() {
	case "y", "Y", "enter":
		m.state = StateBrowse
		m.confirm = nil
		if pending == nil {
			return m, nil
		}
		return m, pending.run
	case "n", "N", "esc", "q":
		m.state = StateBrowse
		m.confirm = nil
		m.status = "Cancelled"
	}
	return m, nil
}

func (m Model) handleImportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateBrowse
		m.importA.Blur()
		return m, nil

	case "ctrl+s", "ctrl+d":
		text := m.importA.Value()
		m.state = StateBrowse
		m.importA.Blur()
		return m, m.importRoster(text)
	}

	var cmd tea.Cmd
	m.importA, cmd = m.importA.Update(msg)
	return m, cmd
}
