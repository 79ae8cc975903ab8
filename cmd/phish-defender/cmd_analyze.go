package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phishdefender/phish-defender/internal/adapters/cache"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type analyzeOptions struct {
	strict bool
	json   bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check a URL or a header block for signs of phishing",
	}
	cmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Exit with status 2 when the input looks suspicious")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print the result as JSON")

	urlCmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Analyze a URL",
		Example: `  phish-defender analyze url http://paypa1-secure.com/login
  phish-defender analyze url --strict "$LINK" || echo "do not click"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, root, opts, func(ctx context.Context, svc *analyzer.Service) (*core.AnalysisResult, error) {
				result, err := svc.AnalyzeURL(ctx, args[0])
				if err != nil && !analyzer.IsInvalidURL(err) {
					return nil, err
				}
				return result, nil
			})
		},
	}

	var file string
	headerCmd := &cobra.Command{
		Use:   "header",
		Short: "Analyze a raw header block read from a file or stdin",
		Example: `  phish-defender analyze header --file suspicious.eml
  pbpaste | phish-defender analyze header`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			return runAnalysis(cmd, root, opts, func(ctx context.Context, svc *analyzer.Service) (*core.AnalysisResult, error) {
				return svc.AnalyzeHeader(ctx, headerBlock(raw)), nil
			})
		},
	}
	headerCmd.Flags().StringVarP(&file, "file", "f", "", "Input file (stdin if not specified)")

	cmd.AddCommand(urlCmd, headerCmd)
	return cmd
}

func runAnalysis(
	cmd *cobra.Command,
	root *rootOptions,
	opts *analyzeOptions,
	analyze func(context.Context, *analyzer.Service) (*core.AnalysisResult, error),
) error {
	container, err := root.container("", nil)
	if err != nil {
		return err
	}

	var result *core.AnalysisResult
	if err := container.Invoke(func(logger *zap.Logger, verdicts *cache.MemoryCache, svc *analyzer.Service) error {
		defer logger.Sync()
		defer verdicts.Stop()

		result, err = analyze(cmd.Context(), svc)
		return err
	}); err != nil {
		return err
	}

	if err := printResult(cmd.OutOrStdout(), result, opts.json); err != nil {
		return err
	}
	if opts.strict && result.Suspicious {
		return errSuspicious
	}
	return nil
}

func readInput(cmd *cobra.Command, file string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// headerBlock drops a message body so a whole .eml file can be analyzed
func headerBlock(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if i := strings.Index(raw, "\n\n"); i >= 0 {
		return raw[:i]
	}
	return raw
}

func printResult(w io.Writer, result *core.AnalysisResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}

	var b strings.Builder
	if result.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", result.Error)
	}
	if u := result.URL; u != nil {
		fmt.Fprintf(&b, "Protocol: %s\nHostname: %s\nPath: %s\n", u.Protocol, u.Hostname, u.Path)
	}
	if h := result.Header; h != nil {
		fmt.Fprintf(&b, "From: %s\nReturn-Path: %s\nReply-To: %s\nDKIM: %s\nSPF: %s\n",
			orNone(h.From), orNone(h.ReturnPath), orNone(h.ReplyTo), core.AuthStatus(h.DKIM).Display(), core.AuthStatus(h.SPF).Display())
		if len(h.ReceivedChain) > 0 {
			fmt.Fprintf(&b, "Received hops: %d\n", len(h.ReceivedChain))
		}
	}

	if !result.Suspicious {
		b.WriteString("\nVerdict: no suspicious signs found\n")
	} else {
		b.WriteString("\nVerdict: suspicious\n")
		for _, r := range result.Reasons {
			fmt.Fprintf(&b, "  ! %s\n", r)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
