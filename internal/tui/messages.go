package tui

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ThemeSavedMsg reports that the theme choice reached the config file
type ThemeSavedMsg struct {
	Theme string
}

// FlagOpenedMsg reports that a flag image was handed to the opener
type FlagOpenedMsg struct {
	Country string
}
