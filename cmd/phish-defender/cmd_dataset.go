package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/factory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDatasetCmd(root *rootOptions) *cobra.Command {
	var storeType string
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage the training content store",
	}
	cmd.PersistentFlags().StringVar(&storeType, "type", "", "Dataset store type: embedded, sqlite, mysql or postgres (default from config)")

	overrides := func(cmd *cobra.Command) map[string]any {
		if !cmd.Flags().Changed("type") {
			return nil
		}
		return map[string]any{"dataset.type": storeType}
	}

	var file string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the content of a SQL store with the built-in or a YAML dataset",
		Example: `  phish-defender dataset seed --type sqlite
  phish-defender dataset seed --type postgres --file content.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), root, overrides(cmd), file)
		},
	}
	seedCmd.Flags().StringVarP(&file, "file", "f", "", "YAML dataset to seed (built-in content if not specified)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load the configured dataset and report any content problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), root, overrides(cmd))
		},
	}

	cmd.AddCommand(seedCmd, checkCmd)
	return cmd
}

func loadSeed(file string) (*dataset.Dataset, error) {
	if file == "" {
		return dataset.Embedded()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return dataset.Parse(data)
}

func runSeed(ctx context.Context, out io.Writer, root *rootOptions, overrides map[string]any, file string) error {
	data, err := loadSeed(file)
	if err != nil {
		return err
	}

	container, err := root.container("", overrides)
	if err != nil {
		return err
	}

	return container.Invoke(func(logger *zap.Logger, f *factory.DatasetFactory) error {
		defer logger.Sync()

		store, err := f.CreateSQLStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Seed(ctx, data); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Seeded %d quickfire emails, %d inbox emails and %d challenges\n",
			len(data.Quickfire), len(data.Inbox), len(data.Challenges))
		return err
	})
}

func runCheck(ctx context.Context, out io.Writer, root *rootOptions, overrides map[string]any) error {
	container, err := root.container("", overrides)
	if err != nil {
		return err
	}

	return container.Invoke(func(logger *zap.Logger, f *factory.DatasetFactory) error {
		defer logger.Sync()

		data, err := f.LoadDataset(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Dataset OK: %d quickfire emails, %d inbox emails, %d challenges\n",
			len(data.Quickfire), len(data.Inbox), len(data.Challenges))
		return err
	})
}
