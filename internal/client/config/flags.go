package config

import (
	"flag"

	"github.com/dmitrijs2005/realestate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string    API base URL
//	-dir string  local state directory
//	-v duration  session validity
//	-t duration  request timeout
//	-ut duration upload timeout
//	-ot duration identity-provider timeout
//
// Unknown flags are filtered out so other components can share os.Args.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "API base URL")
	fs.StringVar(&cfg.StateDir, "dir", cfg.StateDir, "local state directory")
	fs.DurationVar(&cfg.SessionValidity, "v", cfg.SessionValidity, "session validity")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.UploadTimeout, "ut", cfg.UploadTimeout, "upload timeout")
	fs.DurationVar(&cfg.OAuthTimeout, "ot", cfg.OAuthTimeout, "identity provider timeout")

	if err := flagx.ParseOwn(fs, args); err != nil {
		panic(err)
	}
}
