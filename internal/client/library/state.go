// Package library holds the recorder's in-memory list of saved recordings
// and the controller that routes user actions to capture and persistence.
//
// State is an immutable value: every transition returns a new State, so the
// list and selection rules can be tested without any UI.
package library

import (
	"slices"

	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// State is the list of known recordings plus an optional selection.
// The zero value is an empty list with nothing selected.
type State struct {
	videos   []models.Video
	selected string
}

// ApplySaved records a confirmed save. A video with the same path is
// replaced, otherwise v is prepended. v becomes the selection.
func (s State) ApplySaved(v models.Video) State {
	out := make([]models.Video, 0, len(s.videos)+1)
	replaced := false
	for _, e := range s.videos {
		if e.Path == v.Path {
			out = append(out, v)
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append([]models.Video{v}, out...)
	}
	return State{videos: out, selected: v.Path}
}

// ApplyDeleted drops path. If it was selected, the selection moves to the
// first video in sorted order, or to none when the list becomes empty.
func (s State) ApplyDeleted(path string) State {
	out := make([]models.Video, 0, len(s.videos))
	for _, e := range s.videos {
		if e.Path != path {
			out = append(out, e)
		}
	}
	next := State{videos: out, selected: s.selected}
	if s.selected == path {
		next.selected = ""
		if sorted := next.Sorted(); len(sorted) > 0 {
			next.selected = sorted[0].Path
		}
	}
	return next
}

// Select points the selection at path. It reports false, leaving the state
// unchanged, when path is not in the list.
func (s State) Select(path string) (State, bool) {
	if !s.Contains(path) {
		return s, false
	}
	return State{videos: s.videos, selected: path}, true
}

// ClearSelection returns to the "ready to record" view.
func (s State) ClearSelection() State {
	return State{videos: s.videos}
}

// Sorted returns the videos newest first. It is recomputed on every call;
// ties keep list order.
func (s State) Sorted() []models.Video {
	out := slices.Clone(s.videos)
	slices.SortStableFunc(out, func(a, b models.Video) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (s State) Selected() (models.Video, bool) {
	if s.selected == "" {
		return models.Video{}, false
	}
	for _, e := range s.videos {
		if e.Path == s.selected {
			return e, true
		}
	}
	return models.Video{}, false
}

func (s State) Contains(path string) bool {
	return slices.ContainsFunc(s.videos, func(v models.Video) bool { return v.Path == path })
}

func (s State) Len() int { return len(s.videos) }
