package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/knightbus/internal/domain/roster"
)

const (
	fieldName = iota
	fieldJob
	fieldPower
	fieldNotes
)

var fieldLabels = [...]string{"Name", "Job", "Power", "Notes"}

// memberForm edits one knight or client. editID is zero when adding.
type memberForm struct {
	kind   roster.Kind
	editID int64
	inputs []textinput.Model
	focus  int
	err    error
}

type formValues struct {
	name  string
	job   string
	power float64
	notes string
}

func newMemberForm(kind roster.Kind) memberForm {
	n := 3
	if kind == roster.KindClient {
		n = 4
	}
	inputs := make([]textinput.Model, n)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 64
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[fieldPower].Placeholder = "e.g. 50 or 12.5"
	f := memberForm{kind: kind, inputs: inputs}
	f.inputs[0].Focus()
	return f
}

func editKnightForm(k roster.Knight) memberForm {
	f := newMemberForm(roster.KindKnight)
	f.editID = k.ID
	f.inputs[fieldName].SetValue(k.Name)
	f.inputs[fieldJob].SetValue(k.Job)
	f.inputs[fieldPower].SetValue(formatInputPower(k.Power))
	return f
}

func editClientForm(c roster.Client) memberForm {
	f := newMemberForm(roster.KindClient)
	f.editID = c.ID
	f.inputs[fieldName].SetValue(c.Name)
	f.inputs[fieldJob].SetValue(c.Job)
	f.inputs[fieldPower].SetValue(formatInputPower(c.Power))
	f.inputs[fieldNotes].SetValue(c.Notes)
	return f
}

// formatInputPower turns a stored power back into the value an operator types.
func formatInputPower(power int64) string {
	return strconv.FormatFloat(float64(power)/roster.PowerScale, 'f', -1, 64)
}

func (f memberForm) title() string {
	verb := "Add"
	if f.editID != 0 {
		verb = "Edit"
	}
	return fmt.Sprintf("%s %s", verb, f.kind)
}

func (f memberForm) lastField() bool {
	return f.focus == len(f.inputs)-1
}

func (f *memberForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f memberForm) update(msg tea.Msg) (memberForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f memberForm) values() (formValues, error) {
	v := formValues{
		name: strings.TrimSpace(f.inputs[fieldName].Value()),
		job:  strings.TrimSpace(f.inputs[fieldJob].Value()),
	}
	if v.name == "" {
		return formValues{}, errors.New("name is required")
	}
	if v.job == "" {
		return formValues{}, errors.New("job is required")
	}
	power, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[fieldPower].Value()), 64)
	if err != nil {
		return formValues{}, errors.New("power must be a number")
	}
	v.power = power
	if len(f.inputs) > fieldNotes {
		v.notes = f.inputs[fieldNotes].Value()
	}
	if err := roster.ValidateMemberInput(v.name, v.job, v.power); err != nil {
		return formValues{}, fmt.Errorf("invalid %s: %w", f.kind, err)
	}
	return v, nil
}
