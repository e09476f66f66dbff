package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/knightbus/internal/domain/roster"
)

// Messages for roster commands
type snapshotMsg struct {
	snap *roster.Snapshot
	err  error
}

type resultMsg struct {
	status string
	err    error
}

type exportedMsg struct {
	text    string
	err     error
	copyErr error
}

func (m Model) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Snapshot(m.ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// runCommand wraps a roster command so its outcome becomes a resultMsg.
func runCommand(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := fn()
		return resultMsg{status: status, err: err}
	}
}

func (m Model) toggleSelection(kind roster.Kind, id int64) tea.Cmd {
	return runCommand(func() (string, error) {
		selected, err := m.svc.ToggleSelection(m.ctx, kind, id)
		if err != nil {
			return "", err
		}
		if selected {
			return fmt.Sprintf("Selected %s", kind), nil
		}
		return fmt.Sprintf("Deselected %s", kind), nil
	})
}

func (m Model) clearSelection() tea.Cmd {
	return runCommand(func() (string, error) {
		m.svc.ClearSelection()
		return "Selection cleared", nil
	})
}

func (m Model) formParty() tea.Cmd {
	return runCommand(func() (string, error) {
		party, err := m.svc.FormParty(m.ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Formed %s", roster.PartyLabel(party.ID)), nil
	})
}

func (m Model) completeMission(partyID int64) tea.Cmd {
	return runCommand(func() (string, error) {
		if _, err := m.svc.CompleteMission(m.ctx, partyID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Completed mission of %s", roster.PartyLabel(partyID)), nil
	})
}

func (m Model) deleteMember(kind roster.Kind, id int64, name string) tea.Cmd {
	return runCommand(func() (string, error) {
		var err error
		if kind == roster.KindKnight {
			err = m.svc.DeleteKnight(m.ctx, id)
		} else {
			err = m.svc.DeleteClient(m.ctx, id)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %s", name), nil
	})
}

func (m Model) toggleDuty(id int64) tea.Cmd {
	return runCommand(func() (string, error) {
		k, err := m.svc.ToggleKnightDuty(m.ctx, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is %s", k.Name, roster.KnightStatusLabel(k.Status, 0)), nil
	})
}

func (m Model) importRoster(text string) tea.Cmd {
	return runCommand(func() (string, error) {
		summary, err := m.svc.ImportKnightRoster(m.ctx, text)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Imported %d knights, skipped %d lines", summary.Imported, summary.Skipped), nil
	})
}

func (m Model) exportRoster() tea.Cmd {
	return func() tea.Msg {
		text, err := m.svc.ExportKnightRoster(m.ctx)
		if err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{text: text, copyErr: m.clip(text)}
	}
}

func (m Model) submitForm(f memberForm) tea.Cmd {
	return runCommand(func() (string, error) {
		values, err := f.values()
		if err != nil {
			return "", err
		}
		switch {
		case f.kind == roster.KindKnight && f.editID == 0:
			k, err := m.svc.AddKnight(m.ctx, roster.AddKnightRequest{Name: values.name, Job: values.job, Power: values.power})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added knight %s", k.Name), nil
		case f.kind == roster.KindKnight:
			k, err := m.svc.UpdateKnight(m.ctx, roster.UpdateKnightRequest{
				ID: f.editID, Name: &values.name, Job: &values.job, Power: &values.power,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Updated knight %s", k.Name), nil
		case f.editID == 0:
			c, err := m.svc.AddClient(m.ctx, roster.AddClientRequest{Name: values.name, Job: values.job, Power: values.power, Notes: values.notes})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added client %s", c.Name), nil
		default:
			c, err := m.svc.UpdateClient(m.ctx, roster.UpdateClientRequest{
				ID: f.editID, Name: &values.name, Job: &values.job, Power: &values.power, Notes: &values.notes,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Updated client %s", c.Name), nil
		}
	})
}
