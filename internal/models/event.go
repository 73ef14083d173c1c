package models

import "time"

// EventKind names a bridge outcome recorded in the journal.
type EventKind string

const (
	EventSaved        EventKind = "saved"
	EventSaveFailed   EventKind = "save_failed"
	EventDeleted      EventKind = "deleted"
	EventDeleteFailed EventKind = "delete_failed"
)

// Event is one journal row.
type Event struct {
	ID         string
	Kind       EventKind
	Path       string
	Size       int64
	Checksum   string
	Message    string
	OccurredAt time.Time
}
