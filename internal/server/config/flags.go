package config

import (
	"flag"
	"os"
	"time"

	"github.com/ruedaverde/backend/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      bearer token validity, minutes
//	-u string   S3 access key id
//	-p string   S3 secret access key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-q string   Squarespace API key
//	-w string   Squarespace website id
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The duration
// flag is accepted as an integer in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-q", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.S3AccessKeyID, "u", config.S3AccessKeyID, "S3 access key id")
	fs.StringVar(&config.S3SecretAccessKey, "p", config.S3SecretAccessKey, "S3 secret access key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SquarespaceAPIKey, "q", config.SquarespaceAPIKey, "Squarespace API key")
	fs.StringVar(&config.SquarespaceWebsiteID, "w", config.SquarespaceWebsiteID, "Squarespace website id")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// The -t flag holds whole minutes; writing it back unconditionally
	// would truncate a finer-grained value set by env or JSON. Only apply
	// it when the flag was actually passed.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
		}
	})
}
