package storywizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// ButtonID identifies a button's action.
type ButtonID int

const (
	ButtonNone ButtonID = iota - 1
	ButtonBack
	ButtonNext
	ButtonLibrary
	ButtonExit
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with focus tracking.
type ButtonBar struct {
	buttons  []Button
	focusIdx int // -1 when no button is focused
	width    int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons:  buttons,
		focusIdx: -1,
		width:    60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() {
	for i, btn := range b.buttons {
		if btn.State != ButtonDisabled {
			b.focusIdx = i
			return
		}
	}
	b.focusIdx = -1
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() {
	for i := len(b.buttons) - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focusIdx = i
			return
		}
	}
	b.focusIdx = -1
}

// FocusNext moves focus to the next enabled button.
// Returns false if focus moved past the last button.
func (b *ButtonBar) FocusNext() bool {
	for i := b.focusIdx + 1; i < len(b.buttons); i++ {
		if b.buttons[i].State != ButtonDisabled {
			b.focusIdx = i
			return true
		}
	}
	b.focusIdx = -1
	return false
}

// FocusPrev moves focus to the previous enabled button.
// Returns false if focus moved before the first button.
func (b *ButtonBar) FocusPrev() bool {
	for i := b.focusIdx - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focusIdx = i
			return true
		}
	}
	b.focusIdx = -1
	return false
}

// Blur removes button focus.
func (b *ButtonBar) Blur() {
	b.focusIdx = -1
}

// FocusedButton returns the ID of the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focusIdx < 0 || b.focusIdx >= len(b.buttons) {
		return ButtonNone
	}
	return b.buttons[b.focusIdx].ID
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	th := theme.Current()

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgBase)).
		Background(lipgloss.Color(th.BgSurface0)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	disabledStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted)).
		Background(lipgloss.Color(th.BgMantle)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	focusedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(th.Secondary)).
		Bold(true).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	var renderedButtons []string
	for i, btn := range b.buttons {
		var rendered string
		switch {
		case i == b.focusIdx:
			rendered = focusedStyle.Render(btn.Label)
		case btn.State == ButtonDisabled:
			rendered = disabledStyle.Render(btn.Label)
		default:
			rendered = normalStyle.Render(btn.Label)
		}
		renderedButtons = append(renderedButtons, rendered)
	}

	result := strings.Join(renderedButtons, "")

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, result)
}

// CreateBackNextButtons creates the standard Back/Next button set.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	buttons := make([]Button, 0, 2)

	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	buttons = append(buttons, Button{
		ID:    ButtonBack,
		Label: "← Back",
		State: backState,
	})

	nextState := ButtonNormal
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	buttons = append(buttons, Button{
		ID:    ButtonNext,
		Label: nextLabel,
		State: nextState,
	})

	return buttons
}
