package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashflow/internal/logger"
	"cashflow/internal/store"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create missing sheets and header rows",
	Long: `Make sure the spreadsheet has every sheet cashflow reads and writes, each
with its header row. Existing sheets and data are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("setup")

	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := commandContext(timeout, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	if a.sheets == nil {
		return fmt.Errorf("setup needs the sheets backend")
	}

	if err := a.sheets.Ping(ctx); err != nil {
		return err
	}

	tables := []store.Table{store.NetworkTerms, store.ToBeInvoiced, store.Invoices, store.PaidInvoices}
	if a.cfg.JournalEnabled {
		tables = append(tables, a.journal)
	}
	for _, table := range tables {
		if err := a.sheets.EnsureTable(ctx, table); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", table.Name)
	}
	return nil
}
