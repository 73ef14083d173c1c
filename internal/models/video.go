// Package models defines the value types shared by the recorder, the
// persistence bridge and the journal.
package models

import (
	"path"
	"strings"
	"time"
)

// Video describes a recording that has been durably saved.
//
// Path is the unique key within the recorder's list. It is an absolute
// filesystem path or an object URL of the form s3://bucket/key. Checksum is
// the hex BLAKE2b-256 digest of the stored bytes, not SHA-256.
type Video struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Checksum  string    `json:"checksum,omitempty"`
}

// NewVideo builds the metadata returned by a successful save.
func NewVideo(p string, size int64, checksum string, createdAt time.Time) *Video {
	return &Video{
		Path:      p,
		Name:      NameFromPath(p),
		Size:      size,
		CreatedAt: createdAt,
		Checksum:  checksum,
	}
}

// NameFromPath returns the final segment of p. Both '/' and '\' count as
// separators so Windows paths saved by a remote bridge still get a name.
func NameFromPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// SizeMB formats Size the way the details panel shows it.
func (v Video) SizeMB() float64 {
	return float64(v.Size) / 1024 / 1024
}
