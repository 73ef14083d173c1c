// Package journal keeps an append-only history of persistence bridge
// outcomes (saves, deletes and their failures).
//
// The journal is informational. The recording list shown to the user is
// never rebuilt from it.
package journal

import (
	"context"

	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// Repository stores and lists journal events.
type Repository interface {
	// Append records ev. A missing ID or timestamp is filled in.
	Append(ctx context.Context, ev *models.Event) error
	// List returns up to limit events, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.Event, error)
}
