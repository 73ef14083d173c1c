package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vidkeeper/internal/capture"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// execCommand is a test seam for launching the player.
var execCommand = exec.CommandContext

const defaultHistoryLimit = 20

var (
	errNoSelection = errors.New("no video selected")
	errNoPlayer    = errors.New("no player command configured")
	errNothing     = errors.New("nothing to play")
	errRecording   = errors.New("recording in progress")
)

func (a *App) Record(ctx context.Context) error {
	if a.ctrl.RecordingState() == capture.StateRecording {
		a.println("Already recording")
		return nil
	}
	if err := a.ctrl.StartRecording(ctx); err != nil {
		a.println(a.ctrl.Error())
		return err
	}
	a.println("Recording... type 'stop' to finish")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.ctrl.RecordingState() != capture.StateRecording {
		a.println("Not recording")
		return nil
	}
	if err := a.ctrl.StopRecording(ctx); err != nil {
		a.println(a.ctrl.Error())
		return err
	}
	if clip, ok := a.ctrl.UnsavedClip(); ok {
		a.println(fmt.Sprintf("Recorded %s (%s). Type 'save' to keep it or 'discard' to drop it.",
			formatDuration(clip.Duration()), formatSize(int64(clip.Size()))))
	}
	return nil
}

func (a *App) Discard(ctx context.Context) error {
	if a.ctrl.RecordingState() == capture.StateRecording {
		a.println("Stop recording first")
		return errRecording
	}
	if _, ok := a.ctrl.UnsavedClip(); !ok {
		a.println("Nothing to discard")
		return nil
	}
	a.ctrl.DiscardRecording()
	a.println("Recording discarded")
	return nil
}

func (a *App) Save(ctx context.Context) error {
	v, err := a.ctrl.HandleSave(ctx)
	switch {
	case errors.Is(err, common.ErrNoClip):
		a.println("Nothing to save, record a video first")
		return err
	case err != nil:
		a.println(a.ctrl.Error())
		return err
	case v == nil:
		a.println("Save cancelled")
		return nil
	}
	a.println(fmt.Sprintf("Saved %s (%s)", v.Path, formatSize(v.Size)))
	return nil
}

func (a *App) List(ctx context.Context) error {
	videos := a.ctrl.Videos()
	if len(videos) == 0 {
		a.println("No videos yet")
		return nil
	}
	selected, _ := a.ctrl.Selected()
	width := terminalWidth()
	for i, v := range videos {
		a.println(listLine(i+1, v, v.Path == selected.Path, width))
	}
	return nil
}

func (a *App) Select(ctx context.Context, args []string) error {
	v, err := a.videoAt(args)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.ctrl.Select(v.Path)
	return a.Show(ctx)
}

func (a *App) New(ctx context.Context) error {
	a.ctrl.ClearSelection()
	a.println("Ready to record")
	return nil
}

func (a *App) Show(ctx context.Context) error {
	if v, ok := a.ctrl.Selected(); ok {
		a.println(videoDetails(v))
		return nil
	}
	a.println("Ready to record. Recorder is " + string(a.ctrl.RecordingState()) + ".")
	if clip, ok := a.ctrl.UnsavedClip(); ok {
		a.println(fmt.Sprintf("Unsaved clip: %s, %s", formatDuration(clip.Duration()), formatSize(int64(clip.Size()))))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	v, err := a.videoAt(args)
	if err != nil {
		a.println(err.Error())
		return err
	}
	if err := a.ctrl.HandleDelete(ctx, v.Path); err != nil {
		a.println(a.ctrl.Error())
		return err
	}
	a.println("Deleted " + v.Name)
	return nil
}

// Play pipes a saved video, or the unsaved clip when nothing is selected,
// into the configured player.
func (a *App) Play(ctx context.Context, args []string) error {
	src, err := a.playSource(ctx, args)
	if err != nil {
		a.println(err.Error())
		return err
	}
	defer src.Close()

	fields := strings.Fields(a.config.PlayerCommand)
	if len(fields) == 0 {
		a.println(errNoPlayer.Error())
		return errNoPlayer
	}

	cmd := execCommand(ctx, fields[0], fields[1:]...)
	cmd.Stdin = src
	cmd.Stdout = a.out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		a.println("Player failed: " + err.Error())
		return err
	}
	return nil
}

func (a *App) playSource(ctx context.Context, args []string) (io.ReadCloser, error) {
	if len(args) > 0 {
		v, err := a.videoAt(args)
		if err != nil {
			return nil, err
		}
		return a.ctrl.Media(ctx, v.Path)
	}
	if v, ok := a.ctrl.Selected(); ok {
		return a.ctrl.Media(ctx, v.Path)
	}
	if clip, ok := a.ctrl.UnsavedClip(); ok {
		return io.NopCloser(bytes.NewReader(clip.Data)), nil
	}
	return nil, errNothing
}

func (a *App) History(ctx context.Context, args []string) error {
	if a.history == nil {
		a.println("History is not available")
		return nil
	}
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			a.println("Usage: history [n]")
			return fmt.Errorf("invalid limit %q", args[0])
		}
		limit = n
	}

	events, err := a.history(ctx, limit)
	if err != nil {
		a.println("Failed to read history: " + err.Error())
		return err
	}
	if len(events) == 0 {
		a.println("No history yet")
		return nil
	}
	for _, ev := range events {
		a.println(eventLine(ev))
	}
	return nil
}

// videoAt resolves a 1-based list index, or the selection when args is empty.
func (a *App) videoAt(args []string) (models.Video, error) {
	if len(args) == 0 {
		if v, ok := a.ctrl.Selected(); ok {
			return v, nil
		}
		return models.Video{}, errNoSelection
	}
	n, err := strconv.Atoi(args[0])
	videos := a.ctrl.Videos()
	if err != nil || n < 1 || n > len(videos) {
		return models.Video{}, fmt.Errorf("no video #%s", args[0])
	}
	return videos[n-1], nil
}
