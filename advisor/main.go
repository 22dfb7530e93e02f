// Command advisor parses requirement expressions, expands prerequisite
// chains and checks course plans against a catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/advise"
	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/db"
	"github.com/brequin/brequin/advise/requirement"
)

// errUnmet makes advisor exit 1 after a report that was written in full.
var errUnmet = errors.New("requirements not met")

type app struct {
	configPath  string
	catalogFile string
	databaseURL string
	jsonOutput  bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Check course plans against catalog requirements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.catalogFile, "catalog", "", "catalog JSON document, used instead of the database")
	flags.StringVar(&a.databaseURL, "database", "", "Postgres connection string")
	flags.BoolVar(&a.jsonOutput, "json", false, "write results as JSON")

	root.AddCommand(a.parseCmd(), a.chainsCmd(), a.checkCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.catalogFile != "" {
		cfg.Catalog.File = a.catalogFile
	}
	if a.databaseURL != "" {
		cfg.Database.URL = a.databaseURL
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

// openCatalog prefers a catalog file over the database.
func (a *app) openCatalog(ctx context.Context) (catalog.Catalog, func(), error) {
	switch {
	case a.cfg.Catalog.File != "":
		doc, err := catalog.ReadFile(a.cfg.Catalog.File)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("loaded catalog file",
			slog.String("file", a.cfg.Catalog.File),
			slog.Int("courses", len(doc.Courses)))
		return catalog.NewMemory(doc), func() {}, nil
	case a.cfg.Database.URL != "":
		database, err := db.Open(ctx, a.cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return database, database.Close, nil
	}
	return nil, nil, errors.New("no catalog: set --catalog, --database, catalog.file or database.url")
}

func (a *app) adviseOptions() []advise.Option {
	return []advise.Option{
		advise.WithParallelism(a.cfg.Resolve.Parallelism),
		advise.WithMaxRounds(a.cfg.Resolve.MaxRounds),
		advise.WithLogger(a.logger),
	}
}

// parsePrograms reads --program values written as type:name.
func parsePrograms(values []string) ([]catalog.ProgramRef, error) {
	var refs []catalog.ProgramRef
	for _, value := range values {
		typ, name, found := strings.Cut(value, ":")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("program %q: want type:name", value)
		}
		programType, err := requirement.ParseProgramType(strings.TrimSpace(typ))
		if err != nil {
			return nil, fmt.Errorf("program %q: %w", value, err)
		}
		refs = append(refs, catalog.ProgramRef{Type: programType, Name: strings.TrimSpace(name)})
	}
	return refs, nil
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, errUnmet):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "advisor:", err)
		os.Exit(2)
	}
}
