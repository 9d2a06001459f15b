package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/ui/theme"
)

const maxPathLen = 1024

// PathInput is a single-line file path prompt. A rejected path keeps the
// typed text and shows the reason under the field until the next edit.
type PathInput struct {
	field  textinput.Model
	reason string
}

// NewPathInput returns a focused prompt with the given placeholder.
func NewPathInput(placeholder string) PathInput {
	f := textinput.New()
	f.Placeholder = placeholder
	f.Prompt = "📂 "
	f.CharLimit = maxPathLen
	f.Focus()
	return PathInput{field: f}
}

// Init starts the cursor blink.
func (p PathInput) Init() tea.Cmd {
	return p.field.Focus()
}

// Update forwards editing keys to the field.
func (p PathInput) Update(msg tea.Msg) (PathInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		p.reason = ""
	}
	var cmd tea.Cmd
	p.field, cmd = p.field.Update(msg)
	return p, cmd
}

// Path returns the typed path.
func (p PathInput) Path() string { return p.field.Value() }

// Reject records why the current path was refused.
func (p *PathInput) Reject(reason string) { p.reason = reason }

// View renders the field and, after a rejection, its reason.
func (p PathInput) View() string {
	v := p.field.View()
	if p.reason != "" {
		v += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+p.reason)
	}
	return v
}
