package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
)

// test seams
var (
	execCommand = exec.Command
	lookPath    = exec.LookPath
	statDevice  = os.Stat
)

// FFmpegOptions describes how to invoke ffmpeg for live capture.
type FFmpegOptions struct {
	Binary      string        // defaults to "ffmpeg"
	InputFormat string        // v4l2, avfoundation, dshow; platform default when empty
	Device      string        // platform default when empty
	ExtraArgs   []string      // inserted before the output options
	StopGrace   time.Duration // how long ffmpeg may take to finalise after "q"
}

func (o FFmpegOptions) withDefaults() FFmpegOptions {
	if o.Binary == "" {
		o.Binary = "ffmpeg"
	}
	if o.InputFormat == "" || o.Device == "" {
		format, device := platformDefaults(runtime.GOOS)
		if o.InputFormat == "" {
			o.InputFormat = format
		}
		if o.Device == "" {
			o.Device = device
		}
	}
	if o.StopGrace <= 0 {
		o.StopGrace = 5 * time.Second
	}
	return o
}

func platformDefaults(goos string) (format, device string) {
	switch goos {
	case "darwin":
		return "avfoundation", "0:0"
	case "windows":
		return "dshow", "video=Integrated Camera"
	default:
		return "v4l2", "/dev/video0"
	}
}

// Args returns the ffmpeg command line: capture from the device and emit
// fragmented MP4 on stdout so the stream is playable without a seekable sink.
func (o FFmpegOptions) Args() []string {
	o = o.withDefaults()
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", o.InputFormat,
		"-i", o.Device,
	}
	args = append(args, o.ExtraArgs...)
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-f", "mp4",
		"-movflags", "frag_keyframe+empty_moov+default_base_moof",
		"pipe:1",
	)
	return args
}

// NewFFmpegBackend captures from a camera by running ffmpeg.
// A missing binary or device node is reported as an unavailable device.
func NewFFmpegBackend(opts FFmpegOptions, streamOpts ...StreamOption) *StreamBackend {
	opts = opts.withDefaults()
	return NewStreamBackend(func(ctx context.Context) (io.ReadCloser, error) {
		return startFFmpeg(ctx, opts)
	}, streamOpts...)
}

func startFFmpeg(ctx context.Context, opts FFmpegOptions) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bin, err := lookPath(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", common.ErrCaptureUnavailable, opts.Binary, err)
	}
	if opts.InputFormat == "v4l2" {
		if _, err := statDevice(opts.Device); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrCaptureUnavailable, err)
		}
	}

	cmd := execCommand(bin, opts.Args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	s := &ffmpegStream{cmd: cmd, stdin: stdin, stdout: stdout, grace: opts.StopGrace}
	cmd.Stderr = &s.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start ffmpeg: %v", common.ErrCaptureUnavailable, err)
	}
	return s, nil
}

// ffmpegStream reads ffmpeg's stdout. Close asks ffmpeg to finish ("q" on
// stdin) and kills it if it has not exited after the grace period; the
// remaining output is still delivered to the reader until EOF.
type ffmpegStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr bytes.Buffer
	grace  time.Duration

	mu      sync.Mutex
	closed  bool
	waited  bool
	waitErr error
	kill    *time.Timer
}

func (s *ffmpegStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err != nil {
		if werr := s.wait(); werr != nil && err == io.EOF {
			return n, werr
		}
	}
	return n, err
}

func (s *ffmpegStream) wait() error {
	s.mu.Lock()
	if s.waited {
		err := s.waitErr
		s.mu.Unlock()
		return err
	}
	s.waited = true
	s.mu.Unlock()

	err := s.cmd.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil && !s.closed {
		s.waitErr = fmt.Errorf("ffmpeg exited with error: %w; stderr: %s", err, s.stderr.String())
	}
	if s.kill != nil {
		s.kill.Stop()
	}
	return s.waitErr
}

func (s *ffmpegStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	_, _ = io.WriteString(s.stdin, "q")
	err := s.stdin.Close()
	proc := s.cmd.Process
	s.kill = time.AfterFunc(s.grace, func() { _ = proc.Kill() })
	return err
}
