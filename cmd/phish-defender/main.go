// Command phish-defender is a phishing awareness trainer. It runs the
// training game in the terminal, checks URLs and headers from the command
// line, and can host an SMTP drop box that grades forwarded mail.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phishdefender/phish-defender/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
)

// errSuspicious makes analyze --strict exit with status 2
var errSuspicious = errors.New("input looks suspicious")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, errSuspicious) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// rootOptions are the flags shared by every command
type rootOptions struct {
	configFile string
	verbose    bool
	jsonLog    bool
}

// container builds the dependency container. logOutput replaces the
// configured log destination when set.
func (o *rootOptions) container(logOutput string, overrides map[string]any) (*dig.Container, error) {
	container, err := di.BuildContainer(di.Options{
		ConfigFile: o.configFile,
		Verbose:    o.verbose,
		JSONLog:    o.jsonLog,
		LogOutput:  logOutput,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency container: %w", err)
	}
	return container, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var logFile string

	cmd := &cobra.Command{
		Use:   "phish-defender",
		Short: "Phishing awareness trainer",
		Long: `Phish Defender teaches you to spot phishing in three rounds:
  1. Quickfire: classify emails against the clock
  2. Inbox: open, delete or report messages
  3. Lab: analyze URLs, headers and attachments

Run without arguments to start a game.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts, logFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.jsonLog, "json-log", false, "Write logs as JSON")
	cmd.Flags().StringVar(&logFile, "log-file", defaultPlayLog, "Log destination while the game owns the terminal")

	cmd.AddCommand(
		newPlayCmd(opts),
		newAnalyzeCmd(opts),
		newDropboxCmd(opts),
		newDatasetCmd(opts),
	)
	return cmd
}
