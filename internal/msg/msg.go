// Package msg holds the messages shared between the view and its
// collaborators.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary notification line.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts, false for notices
}

// ToastExpiredMsg clears a shown toast.
type ToastExpiredMsg struct {
	ID int // matches the toast it expires
}

// ShowToast returns a command to show a notice.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration}
	}
}

// ShowError returns a command to show an error toast.
func ShowError(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration, IsError: true}
	}
}

// OpenFileMsg asks the host to open a file in the user's editor.
type OpenFileMsg struct {
	Editor string
	Path   string
}
