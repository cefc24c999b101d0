package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httpwire/packages/client"
)

var headCmd = &cobra.Command{
	Use:   "head <url>",
	Short: "Send a HEAD request and print the response headers",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runHead(args[0])
	},
}

func init() {
	headCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "request header, \"Name: value\" (repeatable)")
	headCmd.Flags().DurationVar(&connectTimeoutFlag, "connect-timeout", 0, "connection establishment timeout")
	headCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "per-read timeout")
	headCmd.Flags().IntVar(&maxRedirectsFlag, "max-redirects", 0, "maximum redirect hops")
	headCmd.Flags().BoolVar(&noFollowFlag, "no-follow", false, "do not follow redirects")
	headCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "skip TLS certificate validation")
	headCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "print request progress to stderr")
	headCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	headCmd.Flags().StringVar(&configFlag, "config", "", "path to a config file")
}

func runHead(url string) {
	c, cfg, err := buildClient()
	if err != nil {
		fail(err)
	}

	req := client.NewRequest("HEAD", url)
	for _, h := range headerFlags {
		name, value, ok := splitHeaderFlag(h)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: bad header %q, want \"Name: value\"\n", h)
			os.Exit(ExitUsageError)
		}
		req.AddHeader(name, value)
	}

	resp, err := c.Do(req)
	if err != nil {
		fail(err)
	}
	printHead(resp, cfg)
}
