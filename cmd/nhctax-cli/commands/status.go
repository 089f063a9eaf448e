package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCacheCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe whether the tax portal is currently available.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return err
		}
		return printJSON(service.CheckStatus(cmd.Context()))
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache [scope]",
	Short: "Clear cached results for one search mode, or all of them.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := "all"
		if len(args) == 1 {
			scope = args[0]
		}
		service, err := newService()
		if err != nil {
			return err
		}
		return printJSON(service.ClearCache(cmd.Context(), scope))
	},
}
