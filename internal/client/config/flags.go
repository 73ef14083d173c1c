package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/vidkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-k", "-d", "-f", "-i", "-x", "-p", "-j", "-m", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BridgeAddr, "b", cfg.BridgeAddr, "address and port of the bridge server (empty = in-process)")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "secret key for bridge access tokens")
	fs.StringVar(&cfg.CaptureDevice, "d", cfg.CaptureDevice, "capture device")
	fs.StringVar(&cfg.CaptureFormat, "f", cfg.CaptureFormat, "capture input format")
	fs.StringVar(&cfg.CaptureFixture, "i", cfg.CaptureFixture, "record from this file instead of a camera")
	fs.StringVar(&cfg.FFmpegPath, "x", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.PlayerCommand, "p", cfg.PlayerCommand, "player command reading media from stdin")
	fs.StringVar(&cfg.JournalDSN, "j", cfg.JournalDSN, "journal DSN (sqlite path or postgres:// URL)")
	fs.StringVar(&cfg.DeletePolicy, "m", cfg.DeletePolicy, "delete policy: confirmed or optimistic")
	fs.StringVar(&cfg.SaveDir, "o", cfg.SaveDir, "directory for relative save destinations")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
