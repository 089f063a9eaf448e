package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"nhctax-backend/services/taxsearch"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nhctax-cli",
	Short: "nhctax-cli searches New Hanover County property tax records.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService() (taxsearch.Service, error) {
	return taxsearch.NewService(taxsearch.ConfigFromEnv())
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
