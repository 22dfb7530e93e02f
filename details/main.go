// Command details refreshes the names, descriptions and units of stored
// courses from the course catalog API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/db"
	"github.com/brequin/brequin/advise/registrar"
)

func newCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "details",
		Short:        "Refresh stored course details from the course API",
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
			return run(cmd.Context(), cfg, cfg.NewLogger(cmd.ErrOrStderr()))
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	return cmd
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	database, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	client := registrar.NewClient(cfg.Scrape, logger)
	areas, err := client.SubjectAreas(ctx)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Scrape.Workers)
	for _, area := range areas {
		g.Go(func() error {
			details, err := client.CourseDetails(gCtx, area)
			if err != nil {
				logger.Warn("no course details", slog.String("department", area.Department), slog.Any("error", err))
				return nil
			}
			courses := make([]catalog.Course, 0, len(details))
			for _, d := range details {
				courses = append(courses, d.Course())
			}
			if err := database.UpdateCourseDetails(gCtx, courses); err != nil {
				return err
			}
			logger.Info("updated course details", slog.String("department", area.Department), slog.Int("courses", len(courses)))
			return nil
		})
	}
	return g.Wait()
}

func main() {
	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "details:", err)
		os.Exit(1)
	}
}
