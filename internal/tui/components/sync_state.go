package components

import (
	"fmt"

	"github.com/mmcdole/globe/internal/tui/styles"
)

// DatasetStatus represents the fetch status of the country list
type DatasetStatus int

const (
	StatusIdle DatasetStatus = iota
	StatusLoading
	StatusRefreshing
	StatusSynced
	StatusStale
	StatusError
)

// DatasetSyncState summarizes the dataset query for the header
type DatasetSyncState struct {
	Status DatasetStatus
	Loaded int   // countries currently held
	Error  error // last fetch error, if any
}

// NewDatasetSyncState derives the status from the query's refs.
func NewDatasetSyncState(loaded int, fetching bool, err error) DatasetSyncState {
	s := DatasetSyncState{Loaded: loaded, Error: err}
	switch {
	case fetching && loaded == 0:
		s.Status = StatusLoading
	case fetching:
		s.Status = StatusRefreshing
	case err != nil && loaded == 0:
		s.Status = StatusError
	case err != nil:
		s.Status = StatusStale
	case loaded > 0:
		s.Status = StatusSynced
	}
	return s
}

// View renders the status; spinner is the current spinner frame.
func (s DatasetSyncState) View(spinner string) string {
	switch s.Status {
	case StatusLoading:
		return spinner + styles.DimStyle.Render(" loading")
	case StatusRefreshing:
		return spinner + styles.DimStyle.Render(fmt.Sprintf(" %d countries, refreshing", s.Loaded))
	case StatusSynced:
		return styles.DimStyle.Render(fmt.Sprintf("%d countries", s.Loaded))
	case StatusStale:
		return styles.ErrorStyle.Render("!") + styles.DimStyle.Render(fmt.Sprintf(" %d countries, offline", s.Loaded))
	case StatusError:
		return styles.ErrorStyle.Render("offline")
	default:
		return ""
	}
}
