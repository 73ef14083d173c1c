// Package config loads runtime configuration for the vidkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   address:port of a remote bridge (empty = in-process)
//	-k string   secret key for bridge access tokens
//	-d string   capture device
//	-f string   capture input format
//	-i string   capture fixture file (switches to the file backend)
//	-x string   ffmpeg binary
//	-p string   player command
//	-j string   journal DSN
//	-m string   delete policy (confirmed|optimistic)
//	-o string   directory for relative save destinations
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5m" or
// integer nanoseconds:
//
//	{
//	  "bridge_addr": "127.0.0.1:50051",
//	  "secret_key": "secretKey",
//	  "token_ttl": "5m",
//	  "capture_backend": "ffmpeg",
//	  "player_command": "ffplay -autoexit -i -",
//	  "journal_dsn": "vidkeeper.db",
//	  "delete_policy": "confirmed"
//	}
//
// Keys absent from the file keep their current values.
package config
