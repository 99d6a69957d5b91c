package dialog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Checkbox labels as shown in the modal
const (
	ForceLabel    = "Delete repo even if open changes exist?"
	PreserveLabel = "Preserve GIT Repository?"
)

// Render draws the dialog for the current state. It returns "" when the
// host did not grant the delete action.
func (d *Dialog) Render() string {
	if d.action == nil {
		return ""
	}

	d.mu.Lock()
	state := d.state
	force := d.checked[ForceCheckboxID]
	preserve := d.checked[PreserveCheckboxID]
	d.mu.Unlock()

	var b strings.Builder
	b.WriteString(headingStyle.Render(d.action.Label))
	b.WriteString("\n")

	trigger := fmt.Sprintf("[ %s ]", d.action.Label)
	if d.action.Enabled {
		b.WriteString(buttonStyle.Render(trigger))
	} else {
		b.WriteString(disabledStyle.Render(trigger + " (disabled)"))
	}
	if d.action.Title != "" {
		b.WriteString("  " + hintStyle.Render(d.action.Title))
	}
	b.WriteString("\n")

	if state.ErrorMessage != "" {
		b.WriteString(bannerStyle.Render(state.ErrorMessage))
		b.WriteString("\n")
	}

	if state.Open {
		b.WriteString(d.renderModal(state, force, preserve))
		b.WriteString("\n")
	}

	return b.String()
}

func (d *Dialog) renderModal(state State, force, preserve bool) string {
	var content strings.Builder
	content.WriteString(headingStyle.Render(
		fmt.Sprintf("Are you really sure you want to delete the repo: %q?", d.repoName)))
	content.WriteString("\n\n")
	content.WriteString(checkbox(force) + " " + ForceLabel + "\n")
	content.WriteString(checkbox(preserve) + " " + PreserveLabel + "\n\n")

	if state.Submitting {
		content.WriteString(disabledStyle.Render("[ Deleting... ]"))
	} else {
		content.WriteString(buttonStyle.Render("[ Delete ]"))
	}
	content.WriteString("  " + buttonStyle.Render("[ Cancel ]"))

	return modalStyle.Render(content.String())
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
