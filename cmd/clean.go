package cmd

import (
	"github.com/ms-henglu/treeline/internal/log"
	"github.com/ms-henglu/treeline/internal/source"
	"github.com/spf13/cobra"
)

func NewCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Removes downloaded sources from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cacheDir, err := source.GlobalCacheDir()
			if err != nil {
				return err
			}

			log.Section("Removing download cache...")
			removed, err := source.Clean()
			if err != nil {
				return err
			}
			if !removed {
				log.Hint("Nothing to clean.")
				return nil
			}
			log.Item(cacheDir)

			log.Success("Clean complete!")
			return nil
		},
	}

	return cmd
}
