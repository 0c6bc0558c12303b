package main

import (
	"os"

	"github.com/ms-henglu/treeline/cmd"
	"github.com/ms-henglu/treeline/internal/log"
	"github.com/spf13/cobra"
)

var version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "treeline",
		Short:         "Render directories and other trees as text " + version,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(cmd.NewRenderCmd())
	rootCmd.AddCommand(cmd.NewPresetsCmd())
	rootCmd.AddCommand(cmd.NewCleanCmd())

	return rootCmd
}
