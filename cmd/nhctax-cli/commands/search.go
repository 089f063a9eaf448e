package commands

import (
	"nhctax-backend/lib/scrapers/nhctax"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <owner|address|parcel> <query>",
	Short: "Search property records by owner name, address or parcel id.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return err
		}
		result := service.Search(cmd.Context(), nhctax.SearchMode(args[0]), args[1])
		return printJSON(result)
	},
}
