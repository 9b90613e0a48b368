package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/flagx"
)

// parseFlags populates console Config fields from command-line flags.
//
//	-r string   relay base URL
//	-k string   relay API key
//	-t string   relay thing name
//	-h string   camera host
//	-p int      camera stream port
//	-m string   auth mode: local or hosted
//	-a string   identity service address (hosted mode)
//	-d string   SQLite database path
//	-i int      status poll interval, seconds
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-k", "-t", "-h", "-p", "-m", "-a", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.RelayBaseURL, "r", config.RelayBaseURL, "relay base URL")
	fs.StringVar(&config.RelayKey, "k", config.RelayKey, "relay API key")
	fs.StringVar(&config.RelayThing, "t", config.RelayThing, "relay thing name")
	fs.StringVar(&config.CameraHost, "h", config.CameraHost, "camera host")
	fs.IntVar(&config.CameraPort, "p", config.CameraPort, "camera stream port")
	fs.StringVar(&config.AuthMode, "m", config.AuthMode, "auth mode (local or hosted)")
	fs.StringVar(&config.IdentityEndpoint, "a", config.IdentityEndpoint, "identity service address")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database path")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	pollInterval := fs.Int("i", int(config.PollInterval/time.Second), "status poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			config.PollInterval = time.Duration(*pollInterval) * time.Second
		}
	})
}
