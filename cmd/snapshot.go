package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashflow/internal/dashboard"
	"cashflow/internal/logger"
	"cashflow/pkg/models"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print every table of the spreadsheet",
	Long: `Read network terms, to-be-invoiced rows, outstanding and paid invoices in
one go and print them as JSON. With --summary only the dashboard totals are
printed.`,
	Example: `  cashflow snapshot
  cashflow snapshot --summary`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().Bool("summary", false, "Print totals per table instead of rows")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("snapshot")

	outputPath, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	ctx, cancel := commandContext(timeout, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	snap, err := a.engine.Snapshot(ctx)
	if err != nil {
		return handleTransitionError(err, log)
	}

	if !summaryOnly {
		return writeJSON(snap, outputPath, log)
	}

	summary := dashboard.BuildSummary(snap, a.engine.Now())
	if outputPath != "" {
		return writeJSON(summary, outputPath, log)
	}

	fmt.Printf("To Be Invoiced: %s (%d)\n", summary.ToBeInvoiced.Formatted, summary.ToBeInvoiced.Count)
	fmt.Printf("Outstanding:    %s (%d, %d overdue)\n", summary.Outstanding.Formatted, summary.Outstanding.Count, summary.OverdueCount)
	fmt.Printf("Paid:           %s (%d)\n", summary.Paid.Formatted, summary.Paid.Count)
	fmt.Println()
	for _, t := range summary.NetworkTerms {
		fmt.Printf("  %-20s %3d days  %s - %s  %s\n",
			t.Network, t.PayPeriod, models.FormatDate(t.PeriodStart), models.FormatDate(t.PeriodEnd), models.FormatCurrency(t.RunningTotal))
	}
	return nil
}
