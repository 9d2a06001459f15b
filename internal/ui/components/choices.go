package components

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/ui/theme"
)

// Mark is how a choice is colored once the answer is revealed.
type Mark int

const (
	MarkNone Mark = iota
	MarkBest
	MarkPartial
	MarkWrong
)

// Choices is a numbered option selector. It reports a pick through Chosen
// and stops reacting to keys once Revealed is set.
type Choices struct {
	Options  []string
	Marks    []Mark // set with Reveal
	Selected int
	Chosen   int
	Revealed bool
}

// NewChoices creates a selector with nothing chosen.
func NewChoices(options []string) Choices {
	return Choices{Options: options, Chosen: -1}
}

// Update moves the cursor and records a pick on Enter or a number key.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.Revealed {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Chosen = c.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Selected = i
				c.Chosen = i
			}
		}
	}
	return c, nil
}

// Reveal freezes the selector and colors each option.
func (c *Choices) Reveal(marks []Mark) {
	c.Marks = marks
	c.Revealed = true
}

// View renders the options, wrapped to width.
func (c Choices) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Revealed {
			prefix = "▸ "
		}
		if c.Revealed && i == c.Chosen {
			prefix = "● "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
		switch {
		case c.Revealed:
			style = style.Foreground(markColor(c.mark(i)))
			if i == c.Chosen {
				style = style.Bold(true)
			}
		case i == c.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (c Choices) mark(i int) Mark {
	if i < len(c.Marks) {
		return c.Marks[i]
	}
	return MarkNone
}

func markColor(m Mark) color.Color {
	switch m {
	case MarkBest:
		return theme.Success
	case MarkPartial:
		return theme.Accent
	case MarkWrong:
		return theme.Error
	default:
		return theme.TextDim
	}
}
