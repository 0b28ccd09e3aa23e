package main

import (
	"fmt"
	"os"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/pkg/mistral"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	info    = color.New(color.FgCyan)
	warn    = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
)

func main() {
	app := &cli.App{
		Name:  "agentctl",
		Usage: "Manage the Mistral agents and document library behind the Sumii chat",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for each Mistral API call",
				Value: 2 * time.Minute,
			},
		},
		Commands: []*cli.Command{
			initAgentsCommand,
			showAgentsCommand,
			libraryCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		failure.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

// mistralClient builds a client from the environment and refuses to run without a key.
func mistralClient(c *cli.Context, cfg *config.Config) (*mistral.Client, error) {
	if cfg.Mistral.APIKey == "" {
		return nil, fmt.Errorf("MISTRAL_API_KEY is not set")
	}
	return mistral.NewClient(mistral.Config{
		APIKey:  cfg.Mistral.APIKey,
		BaseURL: cfg.Mistral.BaseURL,
		Timeout: c.Duration("timeout"),
	}), nil
}
