package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cashflow/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Cashflow - track network invoices from billing period to payment",
	Long: `Cashflow manages the invoice lifecycle of affiliate networks on top of a
Google Sheets spreadsheet.

Billing periods accumulate a running total per network. When a period closes
the total is pushed to "To Be Invoiced", invoiced into "Invoices" and finally
moved to "Paid Invoices" once the payment arrives.

Required environment variables (or a .env file):
  GOOGLE_SHEET_URL or SPREADSHEET_ID - the spreadsheet to work on
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string, OR
  GOOGLE_SHEETS_CLIENT_EMAIL and GOOGLE_SHEETS_PRIVATE_KEY`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("Cashflow executed without a command")

		_ = cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (default: none)")
}
