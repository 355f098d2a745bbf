// Package status provides the status bar shown under the progress screen.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// Bar displays the workflow phase and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	phase   domain.Phase
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		phase:  domain.PhaseIdle,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	label := s.phase.Description()
	if s.phase == domain.PhaseFailed {
		label = "Failed"
		if s.message != "" {
			label = fmt.Sprintf("Failed: %s", s.message)
		}
	}
	return s.styles.ForPhase(s.phase).Render(label)
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetPhase sets the displayed phase.
func (s *Bar) SetPhase(phase domain.Phase) {
	s.phase = phase
}

// Phase returns the displayed phase.
func (s *Bar) Phase() domain.Phase {
	return s.phase
}

// SetMessage sets the failure message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the failure message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
