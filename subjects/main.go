// Command subjects stores the registrar's subject areas as departments.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/db"
	"github.com/brequin/brequin/advise/registrar"
)

func newCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "subjects",
		Short:        "Store the quarter's subject areas as departments",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("no database: set database.url or " + config.EnvDatabaseURL)
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			ctx := cmd.Context()

			database, err := db.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				return err
			}

			areas, err := registrar.NewClient(cfg.Scrape, logger).SubjectAreas(ctx)
			if err != nil {
				return err
			}
			if err := database.InsertDepartments(ctx, registrar.Departments(areas)); err != nil {
				return err
			}
			logger.Info("stored departments", slog.String("quarter", cfg.Scrape.Quarter), slog.Int("departments", len(areas)))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	return cmd
}

func main() {
	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "subjects:", err)
		os.Exit(1)
	}
}
