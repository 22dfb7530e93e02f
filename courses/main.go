// Command courses scrapes the courses of the quarter's subject areas,
// with their requisites, into the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/db"
	"github.com/brequin/brequin/advise/registrar"
)

type options struct {
	configPath  string
	departments []string
	details     bool
}

func newCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:          "courses",
		Short:        "Scrape courses and requisites into the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	cmd.Flags().StringVar(&o.configPath, "config", "", "YAML config file")
	cmd.Flags().StringSliceVarP(&o.departments, "department", "d", nil, "only scrape these departments")
	cmd.Flags().BoolVar(&o.details, "details", true, "fill descriptions and units from the course API")
	return cmd
}

func (o *options) run(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
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

	client := registrar.NewClient(cfg.Scrape, logger)
	areas, err := client.SubjectAreas(ctx)
	if err != nil {
		return err
	}
	names := registrar.NamesOf(areas)

	var failed int
	for _, area := range areas {
		if len(o.departments) > 0 && !slices.Contains(o.departments, area.Department) {
			continue
		}
		courses, err := client.Courses(ctx, area, names)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("skipping department", slog.String("department", area.Department), slog.Any("error", err))
			failed++
			continue
		}
		if o.details {
			details, err := client.CourseDetails(ctx, area)
			if err != nil {
				logger.Warn("no course details", slog.String("department", area.Department), slog.Any("error", err))
			}
			registrar.MergeDetails(courses, details)
		}
		if err := database.InsertDepartments(ctx, registrar.Departments([]registrar.SubjectArea{area})); err != nil {
			return err
		}
		if err := database.InsertCourses(ctx, courses); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d departments failed", failed)
	}
	return nil
}

func main() {
	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "courses:", err)
		os.Exit(1)
	}
}
