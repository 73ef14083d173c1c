package cli

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

func formatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

func formatDuration(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

// listLine renders one list row, shortening the name to fit width.
func listLine(n int, v models.Video, selected bool, width int) string {
	marker := " "
	if selected {
		marker = "*"
	}
	tail := fmt.Sprintf("  %10s  %s", formatSize(v.Size), formatTime(v.CreatedAt))
	head := fmt.Sprintf("%s%3d. ", marker, n)
	room := width - utf8.RuneCountInString(head) - utf8.RuneCountInString(tail)
	return head + fitName(v.Name, room) + tail
}

// fitName pads or truncates name to exactly limit runes, marking cuts with "…".
func fitName(name string, limit int) string {
	if limit < 8 {
		limit = 8
	}
	n := utf8.RuneCountInString(name)
	if n <= limit {
		return name + strings.Repeat(" ", limit-n)
	}
	r := []rune(name)
	return string(r[:limit-1]) + "…"
}

func videoDetails(v models.Video) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:     %s\n", v.Name)
	fmt.Fprintf(&b, "Path:     %s\n", v.Path)
	fmt.Fprintf(&b, "Size:     %s\n", formatSize(v.Size))
	fmt.Fprintf(&b, "Created:  %s", formatTime(v.CreatedAt))
	if v.Checksum != "" {
		fmt.Fprintf(&b, "\nChecksum (blake2b-256): %s", v.Checksum)
	}
	return b.String()
}

func eventLine(ev models.Event) string {
	line := fmt.Sprintf("%s  %-13s %s", formatTime(ev.OccurredAt), ev.Kind, ev.Path)
	if ev.Size > 0 {
		line += "  " + formatSize(ev.Size)
	}
	if ev.Message != "" {
		line += "  (" + ev.Message + ")"
	}
	return line
}
