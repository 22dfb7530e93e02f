// Command load stores a catalog JSON document in the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/db"
)

func newCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "load [catalog.json]",
		Short:        "Store a catalog document in the database",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			file := cfg.Catalog.File
			if len(args) == 1 {
				file = args[0]
			}
			if file == "" {
				return errors.New("no catalog: pass a file or set catalog.file")
			}
			if cfg.Database.URL == "" {
				return errors.New("no database: set database.url or " + config.EnvDatabaseURL)
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			ctx := cmd.Context()

			doc, err := catalog.ReadFile(file)
			if err != nil {
				return err
			}
			database, err := db.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				return err
			}
			if err := database.Load(ctx, doc); err != nil {
				return err
			}
			logger.Info("loaded catalog",
				slog.String("file", file),
				slog.Int("programs", len(doc.Programs())),
				slog.Int("courses", len(doc.Courses)))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	return cmd
}

func main() {
	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}
}
