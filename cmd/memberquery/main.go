package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "memberquery",
		Short:        "Member search service and tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml/json/toml)")

	root.AddCommand(newServeCmd(&configFile))
	root.AddCommand(newSearchCmd(&configFile))
	root.AddCommand(newMigrateCmd(&configFile))
	root.AddCommand(newSeedCmd(&configFile))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
