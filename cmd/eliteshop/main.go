package main

import (
	"fmt"
	"os"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/pkg/version"

	"github.com/spf13/cobra"
	_ "time/tzdata"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of eliteshop",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cnst.CommandName, version.Get())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Prepare the configured storage and exit",
		Long:  "Fills in every missing storefront key and guarantees the main admin account. Existing data is never overwritten.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initStorage(cmd.Context())
		},
	}

	rootCmd = &cobra.Command{
		Use:           cnst.CommandName,
		Short:         "Elite Shop storefront",
		Long:          "Elite Shop sells Robux and gift cards; this binary serves its data layer and HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.ConfigYaml, "path to configuration file")
	rootCmd.AddCommand(versionCmd, serveCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
