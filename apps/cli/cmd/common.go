package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httpwire/packages/client"
	"github.com/abdul-hamid-achik/httpwire/packages/config"
)

// buildClient assembles a client from the loaded config file with any
// set flags taking precedence.
func buildClient() (*client.Client, *config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitUsageError)
	}

	connectTimeout := time.Duration(cfg.ConnectTimeout) * time.Millisecond
	if connectTimeoutFlag > 0 {
		connectTimeout = connectTimeoutFlag
	}
	readTimeout := time.Duration(cfg.ReadTimeout) * time.Millisecond
	if timeoutFlag > 0 {
		readTimeout = timeoutFlag
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirectsFlag > 0 {
		maxRedirects = maxRedirectsFlag
	}
	follow := cfg.GetFollowRedirects()
	if noFollowFlag {
		follow = false
	}
	validateSSL := cfg.GetValidateSSL()
	if insecureFlag {
		validateSSL = false
	}

	opts := []client.ClientOption{
		client.WithConnectTimeout(connectTimeout),
		client.WithReadTimeout(readTimeout),
		client.WithMaxRedirects(maxRedirects),
		client.WithFollowRedirects(follow),
		client.WithValidateSSL(validateSSL),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, client.WithDefaultHeaders(cfg.Headers))
	}
	if verboseFlag {
		opts = append(opts, client.WithTrace(verboseTrace()))
	}

	return client.NewClient(opts...), cfg, nil
}

// splitHeaderFlag parses a -H "Name: value" argument.
func splitHeaderFlag(h string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(h, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), true
}

func verboseTrace() *client.Trace {
	return &client.Trace{
		ConnectStart: func(addr string, tls bool) {
			scheme := "http"
			if tls {
				scheme = "https"
			}
			fmt.Fprintf(os.Stderr, "* connecting to %s (%s)\n", addr, scheme)
		},
		ConnectDone: func(addr string, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "* connect to %s failed: %v\n", addr, err)
				return
			}
			fmt.Fprintf(os.Stderr, "* connected to %s\n", addr)
		},
		WroteRequest: func(method, target string) {
			fmt.Fprintf(os.Stderr, "> %s %s\n", method, target)
		},
		GotResponse: func(status int, reason string) {
			fmt.Fprintf(os.Stderr, "< %d %s\n", status, reason)
		},
		Redirect: func(from, to string) {
			fmt.Fprintf(os.Stderr, "* following redirect to %s\n", to)
		},
	}
}
