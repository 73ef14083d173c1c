package models

import "time"

// Clip is an unsaved recording held in memory by the capture session.
type Clip struct {
	Data      []byte
	MimeType  string
	Chunks    int
	StartedAt time.Time
	StoppedAt time.Time
}

// Duration is the wall-clock length of the recording cycle.
func (c Clip) Duration() time.Duration {
	if c.StoppedAt.Before(c.StartedAt) {
		return 0
	}
	return c.StoppedAt.Sub(c.StartedAt)
}

func (c Clip) Size() int { return len(c.Data) }
