// internal/presentation/tui/errors.go
package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C) or declined to continue.
	ErrAborted = errors.New("tui: aborted")
)
