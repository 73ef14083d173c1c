package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   media HTTP bind address (e.g., ":8080")
//	-d string   journal DSN
//	-s string   JWT HMAC secret key
//	-r string   root directory for local recordings
//	-t int      presigned URL validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Duration flags are accepted as integers in minutes and then converted to
// time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-r", "-t", "-u", "-p", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run the bridge server")
	fs.StringVar(&config.MediaAddr, "m", config.MediaAddr, "address and port to serve media")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "journal DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.RootDir, "r", config.RootDir, "root directory for recordings")

	presignValidityDuration := fs.Int("t", int(config.PresignValidityDuration.Minutes()), "presigned URL validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PresignValidityDuration = time.Duration(*presignValidityDuration) * time.Minute
}
