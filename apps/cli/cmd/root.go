package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "httpwire",
	Short: "A minimal HTTP/1.1 client. One connection per request.",
	Long: `httpwire fetches URLs over its own HTTP/1.1 wire implementation:
no connection pooling, no compression, no cookies. Each request opens
one connection, uses it once and discards it.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(headCmd)
	rootCmd.AddCommand(versionCmd)
}
