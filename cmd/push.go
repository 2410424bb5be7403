package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashflow/internal/lifecycle"
	"cashflow/internal/logger"
)

var pushCmd = &cobra.Command{
	Use:   "push <network>...",
	Short: "Push closed billing periods to To Be Invoiced",
	Long: `Close the billing period of each named network whose running total is
positive and whose period end is today or earlier.

For every such network a row is added to "To Be Invoiced" and the network's
terms are rolled forward: the running total is reset to zero and the next
period starts the day after the old period end.`,
	Example: `  # Push two networks
  cashflow push AcmeNet Beta

  # Write the result to a file
  cashflow push AcmeNet -o push.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("push")

	outputPath, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := commandContext(timeout, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	result, err := a.engine.PushToBeInvoiced(ctx, args, a.engine.Now())
	if err != nil {
		log.Error().Err(err).Msg("Push failed")
		return fmt.Errorf("push failed: %s", lifecycle.DetailsOf(err))
	}

	log.Info().
		Strs("updated", result.UpdatedNetworks).
		Int("skipped", len(result.Skipped)).
		Msg("Push completed")

	return writeJSON(result, outputPath, log)
}
