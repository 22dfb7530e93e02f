// Command quarters lists the quarters of the schedule of classes, for
// choosing scrape.quarter.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/registrar"
)

func newCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "quarters",
		Short:        "List the quarters of the schedule of classes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			quarters, err := registrar.NewClient(cfg.Scrape, cfg.NewLogger(cmd.ErrOrStderr())).Quarters(cmd.Context())
			if err != nil {
				return err
			}
			for _, q := range quarters {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", q.Code, q.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	return cmd
}

func main() {
	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "quarters:", err)
		os.Exit(1)
	}
}
