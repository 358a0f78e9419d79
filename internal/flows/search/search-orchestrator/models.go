// internal/flows/search/search-orchestrator/models.go
package searchorchestrator

import (
	"lease-client/internal/common/config"
	"lease-client/internal/models"
)

// Mode selects which lookup Execute dispatches.
type Mode string

const (
	ModeZipCode Mode = config.ModeZipCode
	ModeState   Mode = config.ModeState
)

func (m Mode) Valid() bool {
	return m == ModeZipCode || m == ModeState
}

// Label is the human name of the query kind.
func (m Mode) Label() string {
	if m == ModeState {
		return "state"
	}
	return "ZIP code"
}

type ViewState string

const (
	ViewNotSearched ViewState = "not_searched"
	ViewLoading     ViewState = "loading"
	ViewError       ViewState = "error"
	ViewEmpty       ViewState = "empty"
	ViewPopulated   ViewState = "populated"
)

const ErrorMessage = "Error loading houses. Please try again."

// EmptyMessage is shown when a search for mode found nothing.
func EmptyMessage(mode Mode) string {
	return "No houses found for this " + mode.Label() + "."
}

// View is the single discriminated result projection. Mode is set for
// Empty, Listings for Populated, Err and Message for Error.
type View struct {
	State    ViewState
	Mode     Mode
	Listings []models.Listing
	Message  string
	Err      error
}

type Snapshot struct {
	Mode  Mode
	Query string
	Epoch uint64
	View  View
}
