package cmd

import "github.com/spf13/cobra"

// cacheCmd groups redis cache subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Collection cache utilities",
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
