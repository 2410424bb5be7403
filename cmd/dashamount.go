package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashflow/internal/logger"
	"cashflow/pkg/models"
)

var dashAmountCmd = &cobra.Command{
	Use:   "dash-amount <network> <period-end> <amount>",
	Short: "Set the dash amount of a To Be Invoiced row",
	Long: `Overwrite the dash amount of the "To Be Invoiced" row for a network and
period end, e.g. after reconciling the network's own dashboard figure.`,
	Example: `  cashflow dash-amount AcmeNet 2024-01-06 '$1,199.99'`,
	Args:    cobra.ExactArgs(3),
	RunE:    runDashAmount,
}

func init() {
	rootCmd.AddCommand(dashAmountCmd)
}

func runDashAmount(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("dash-amount")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	network, periodEnd, amount := args[0], args[1], models.ParseAmount(args[2])

	ctx, cancel := commandContext(timeout, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	if err := a.engine.UpdateDashAmount(ctx, network, periodEnd, amount); err != nil {
		return handleTransitionError(err, log)
	}

	fmt.Printf("dash amount of %s ending %s set to %s\n", network, models.FormatDate(periodEnd), models.FormatCurrency(amount))
	return nil
}
