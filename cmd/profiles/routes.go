package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/querybind/core/config"
	"github.com/dmitrymomot/querybind/core/logger"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Long:  `Print every method and pattern the server would register with the current configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg appConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}

			dir, err := loadDirectory(cfg)
			if err != nil {
				return err
			}

			r, err := newRouter(cfg, dir, logger.Discard())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATTERN")
			for _, route := range r.Routes() {
				fmt.Fprintf(w, "%s\t%s\n", route.Method, route.Pattern)
			}
			return w.Flush()
		},
	}
}

