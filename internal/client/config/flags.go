package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-m string   transport mode: mock or api
//	-u string   base URL of the intake API
//	-k string   bearer token for the intake API
//	-g string   address:port of the gRPC health endpoint
//	-i int      online check interval in seconds
//	-s int      maximum upload size in MB
//	-l string   locale (pt-BR, en-US)
//	-d string   path of the local SQLite database
//
// Only these flags are considered (flagx.FilterArgs), so other components
// may define their own.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-m", "-u", "-k", "-g", "-i", "-s", "-l", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "transport mode (mock|api)")
	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "intake API base URL")
	fs.StringVar(&cfg.APIToken, "k", cfg.APIToken, "intake API bearer token")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "gRPC health endpoint address")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.MaxUploadMB, "s", cfg.MaxUploadMB, "maximum upload size (MB)")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "locale (pt-BR|en-US)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// A file value may be sub-second, so -i only overrides it when given.
	if flagx.IsSet(fs, "i") {
		cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	}
}
