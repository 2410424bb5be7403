package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashflow/internal/dashboard"
	"cashflow/internal/logger"
	"cashflow/pkg/models"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "List invoices to create and overdue invoices to chase",
	Args:  cobra.NoArgs,
	RunE:  runTodo,
}

func init() {
	rootCmd.AddCommand(todoCmd)

	todoCmd.Flags().Bool("json", false, "Print JSON instead of text")
}

func runTodo(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("todo")

	outputPath, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	asJSON, _ := cmd.Flags().GetBool("json")

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
	todo := dashboard.BuildTodo(snap, a.engine.Now())

	if asJSON || outputPath != "" {
		return writeJSON(todo, outputPath, log)
	}

	fmt.Println("Invoices to create")
	if len(todo.InvoicesToCreate) == 0 {
		fmt.Println("  none")
	}
	for _, item := range todo.InvoicesToCreate {
		fmt.Printf("  %-20s period ended %s  %s\n", item.Network, item.PeriodEndDisplay, models.FormatCurrency(item.RunningTotal))
	}

	fmt.Println()
	fmt.Println("Overdue follow-ups")
	if len(todo.FollowUps) == 0 {
		fmt.Println("  none")
	}
	for _, inv := range todo.FollowUps {
		fmt.Printf("  %-20s due %s  %s\n", inv.Network, inv.DueDateFormatted, models.FormatCurrency(inv.Amount))
	}
	return nil
}
