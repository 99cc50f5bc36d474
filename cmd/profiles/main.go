package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "profiles",
		Short: "People directory API with typed query binding",
		Long: `profiles serves a small people directory over HTTP.

Path captures and query strings are bound into typed structs. In strict
mode unknown, duplicated or out-of-order parameters are rejected with a
400 response that names the offending keys.

Configuration is read from the environment and an optional .env file:

  SERVER_ADDR           listen address (default :8080)
  LOG_LEVEL             debug, info, warn or error (default info)
  APP_ENV               development or production (default production)
  PROFILES_FIXTURE      YAML fixture path (default: embedded fixture)
  PROFILES_WATCH        reload the fixture on change (default false)
  PROFILES_BIND_MODE    strict or lenient for the listing (default strict)
  CORS_ALLOW_ORIGINS    comma-separated origins (default *)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
