package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detailCmd)
}

var detailCmd = &cobra.Command{
	Use:   "detail <parcel-id>",
	Short: "Fetch the full detail record for a parcel id.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return err
		}
		result := service.GetDetail(cmd.Context(), args[0])
		return printJSON(result)
	},
}
