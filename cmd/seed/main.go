// Command seed loads the demo word list into the configured MongoDB
// database, or restores a snapshot previously exported to object storage.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wordcollab/wordcollab/internal/config"
	"github.com/wordcollab/wordcollab/internal/database"
	"github.com/wordcollab/wordcollab/internal/export"
	"github.com/wordcollab/wordcollab/internal/storage"
	"github.com/wordcollab/wordcollab/internal/word/repository"
	"github.com/wordcollab/wordcollab/internal/word/service"
	"github.com/wordcollab/wordcollab/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		snapshot string
		logLevel string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo words into the word store",
		Long: `Seed makes the demo words and their collaborators present in the
database named by MONGODB_URI and MONGODB_DB. Existing words and
collaborators are left untouched, so it can be run repeatedly.

With --snapshot the words come from an export in MinIO instead.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logLevel)
			if timeout <= 0 {
				return fmt.Errorf("--timeout must be positive, got %s", timeout)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(ctx, cmd.OutOrStdout(), snapshot)
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Restore from this export key instead of the demo list")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Overall deadline")

	cmd.AddCommand(exportCmd(&timeout))
	return cmd
}

func exportCmd(timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of all words to MinIO",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()
			cfg, store, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()
			exp, err := newExporter(ctx, cfg, store)
			if err != nil {
				return err
			}
			res, err := exp.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d words to %s\n", res.Count, res.Key)
			return nil
		},
	}
}

// open connects to MongoDB and returns a word service with a func that releases it.
func open(ctx context.Context) (*config.Config, service.Service, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	mgr, err := database.NewManager(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := mgr.Get(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	closeFn := func() {
		if err := mgr.Close(context.Background()); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}
	return cfg, service.NewStore(repository.NewMongoRepo(mgr)), closeFn, nil
}

func newExporter(ctx context.Context, cfg *config.Config, words service.Service) (*export.Exporter, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, errors.New("MINIO_ENDPOINT is required for snapshots")
	}
	st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, err
	}
	return export.New(words, st), nil
}

func run(ctx context.Context, out io.Writer, snapshot string) error {
	cfg, store, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	logger.Infof("seeding database %q", cfg.MongoDB.Database)

	if snapshot == "" {
		return seedDemo(ctx, out, store)
	}
	exp, err := newExporter(ctx, cfg, store)
	if err != nil {
		return err
	}
	return restore(ctx, out, exp, snapshot)
}

func seedDemo(ctx context.Context, out io.Writer, svc service.Service) error {
	rep, err := service.Seed(ctx, svc, service.DemoEntries)
	if err != nil {
		return err
	}
	report(out, rep)
	return nil
}

func restore(ctx context.Context, out io.Writer, exp *export.Exporter, key string) error {
	rep, err := exp.Restore(ctx, key)
	if err != nil {
		return err
	}
	report(out, rep)
	return nil
}

func report(out io.Writer, rep *service.SeedReport) {
	fmt.Fprintf(out, "words created: %d, already present: %d, collaborators added: %d\n",
		rep.WordsCreated, rep.WordsExisting, rep.CollaboratorsAdded)
}
