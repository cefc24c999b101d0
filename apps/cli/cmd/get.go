package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/httpwire/packages/client"
	"github.com/abdul-hamid-achik/httpwire/packages/config"
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Fetch a URL and write the body to stdout or a file",
	Long: `Fetch a URL over httpwire's HTTP/1.1 engine.

Examples:
  httpwire get https://example.com/
  httpwire get https://example.com/ -o page.html
  httpwire get https://api.example.com/users -H "Authorization: Bearer t"
  httpwire get https://api.example.com/users --query "0.name"
  httpwire get https://example.com/ --include --dump`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runGet(args[0])
	},
}

var (
	outputFlag         string
	headerFlags        []string
	connectTimeoutFlag time.Duration
	timeoutFlag        time.Duration
	maxRedirectsFlag   int
	noFollowFlag       bool
	insecureFlag       bool
	queryFlag          string
	dumpFlag           bool
	includeFlag        bool
	verboseFlag        bool
	noColorFlag        bool
	configFlag         string
)

func init() {
	getCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the body to a file instead of stdout")
	getCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "request header, \"Name: value\" (repeatable)")
	getCmd.Flags().DurationVar(&connectTimeoutFlag, "connect-timeout", 0, "connection establishment timeout")
	getCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "per-read timeout")
	getCmd.Flags().IntVar(&maxRedirectsFlag, "max-redirects", 0, "maximum redirect hops")
	getCmd.Flags().BoolVar(&noFollowFlag, "no-follow", false, "do not follow redirects")
	getCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "skip TLS certificate validation")
	getCmd.Flags().StringVar(&queryFlag, "query", "", "print only this JSON path of the body")
	getCmd.Flags().BoolVar(&dumpFlag, "dump", false, "write a YAML response summary to stderr")
	getCmd.Flags().BoolVarP(&includeFlag, "include", "i", false, "print status line and headers before the body")
	getCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "print request progress to stderr")
	getCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	getCmd.Flags().StringVar(&configFlag, "config", "", "path to a config file")
}

func runGet(url string) {
	c, cfg, err := buildClient()
	if err != nil {
		fail(err)
	}

	var sink io.Writer
	var bodyFile *os.File
	buffered := queryFlag != ""
	if !buffered {
		if outputFlag != "" {
			bodyFile, err = os.Create(outputFlag)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(ExitUsageError)
			}
			sink = bodyFile
		} else {
			sink = os.Stdout
		}
	}

	req := client.NewRequest("GET", url)
	for _, h := range headerFlags {
		name, value, ok := splitHeaderFlag(h)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: bad header %q, want \"Name: value\"\n", h)
			os.Exit(ExitUsageError)
		}
		req.AddHeader(name, value)
	}

	var resp *client.Response
	if buffered {
		resp, err = c.Do(req)
	} else {
		resp, err = c.DoSink(req, sink)
	}
	if bodyFile != nil {
		_ = bodyFile.Close()
	}
	if err != nil {
		fail(err)
	}

	if includeFlag {
		printHead(resp, cfg)
	}
	if buffered {
		result := gjson.GetBytes(resp.Body, queryFlag)
		if result.Exists() {
			fmt.Println(result.String())
		}
	}
	if dumpFlag {
		dumpSummary(resp)
	}
	if verboseFlag {
		fmt.Fprintf(os.Stderr, "completed in %dms\n", resp.DurationMs())
	}
}

// dumpSummary writes status, headers and timing as YAML to stderr.
func dumpSummary(resp *client.Response) {
	type summary struct {
		Status     int               `yaml:"status"`
		Reason     string            `yaml:"reason"`
		Proto      string            `yaml:"proto"`
		Headers    map[string]string `yaml:"headers"`
		DurationMs int64             `yaml:"durationMs"`
	}
	s := summary{
		Status:     resp.StatusCode,
		Reason:     resp.Reason,
		Proto:      resp.Proto,
		Headers:    make(map[string]string),
		DurationMs: resp.DurationMs(),
	}
	for _, e := range resp.Headers.Entries() {
		s.Headers[e.Name] = e.Value
	}
	out, err := yaml.Marshal(&s)
	if err != nil {
		return
	}
	_, _ = os.Stderr.Write(out)
}

func printHead(resp *client.Response, cfg *config.Config) {
	statusColor := color.New(color.FgGreen)
	switch {
	case resp.IsRedirect():
		statusColor = color.New(color.FgYellow)
	case resp.IsClientError() || resp.IsServerError():
		statusColor = color.New(color.FgRed)
	}
	if noColorFlag || cfg.GetNoColor() {
		color.NoColor = true
	}

	statusColor.Fprintf(os.Stderr, "%s %s\n", resp.Proto, resp.Status())
	nameColor := color.New(color.FgCyan)
	for _, e := range resp.Headers.Entries() {
		nameColor.Fprintf(os.Stderr, "%s", e.Name)
		fmt.Fprintf(os.Stderr, ": %s\n", e.Value)
	}
	fmt.Fprintln(os.Stderr)
}

func fail(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(exitCodeFor(err))
}
