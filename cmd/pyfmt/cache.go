package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyfmt/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the formatting result cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all cached formatting results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache("pyfmt")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleaned")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}
