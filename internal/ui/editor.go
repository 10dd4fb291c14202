package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/mdiff/internal/source"
)

// Editor holds the two text buffers of edit mode
type Editor struct {
	inputs [2]textarea.Model
	focus  source.Side

	titleStyle   lipgloss.Style
	focusedStyle lipgloss.Style
}

// NewEditor creates an editor with the left buffer focused
func NewEditor(original, modified string) Editor {
	e := Editor{
		titleStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		focusedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	}
	placeholders := [2]string{"Paste original text here...", "Paste modified text here..."}
	for i := range e.inputs {
		ta := textarea.New()
		ta.Placeholder = placeholders[i]
		ta.ShowLineNumbers = true
		ta.CharLimit = 0
		ta.MaxHeight = 0
		e.inputs[i] = ta
	}
	e.inputs[source.SideLeft].SetValue(original)
	e.inputs[source.SideRight].SetValue(modified)
	e.Focus(source.SideLeft)
	return e
}

// SetSize splits the width between the two buffers, leaving a row for
// the titles
func (e *Editor) SetSize(width, height int) {
	half := max((width-1)/2, 1)
	for i := range e.inputs {
		e.inputs[i].SetWidth(half)
		e.inputs[i].SetHeight(max(height-1, 1))
	}
}

// Focus moves the cursor to one buffer
func (e *Editor) Focus(side source.Side) tea.Cmd {
	e.focus = side
	e.inputs[side.Other()].Blur()
	return e.inputs[side].Focus()
}

// Blur removes focus from both buffers
func (e *Editor) Blur() {
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

// Toggle moves the cursor to the other buffer
func (e *Editor) Toggle() tea.Cmd {
	return e.Focus(e.focus.Other())
}

// Focused returns the side being edited
func (e *Editor) Focused() source.Side {
	return e.focus
}

// Value returns the text of one buffer
func (e *Editor) Value(side source.Side) string {
	return e.inputs[side].Value()
}

// SetValue replaces the text of one buffer
func (e *Editor) SetValue(side source.Side, text string) {
	e.inputs[side].SetValue(text)
}

// Swap exchanges the contents of the two buffers
func (e *Editor) Swap() {
	left, right := e.Value(source.SideLeft), e.Value(source.SideRight)
	e.SetValue(source.SideLeft, right)
	e.SetValue(source.SideRight, left)
}

// Update routes a message to the focused buffer and reports whether its
// text changed
func (e *Editor) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := e.inputs[e.focus].Value()
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e.inputs[e.focus].Value() != before, cmd
}

// View renders both buffers side by side under their titles
func (e *Editor) View(leftTitle, rightTitle string) string {
	titles := [2]string{leftTitle, rightTitle}
	var columns [2]string
	for i := range e.inputs {
		style := e.titleStyle
		if source.Side(i) == e.focus {
			style = e.focusedStyle
		}
		columns[i] = lipgloss.JoinVertical(lipgloss.Left, style.Render(titles[i]), e.inputs[i].View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns[0], " ", columns[1])
}
