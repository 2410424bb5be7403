package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashflow/internal/logger"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the transition journal",
}

var journalPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List transitions that started but never completed",
	Long: `Every move between sheets is recorded in the journal before it starts and
marked done once the source row is deleted. Entries still pending belong to
moves that were interrupted: the invoice may now appear in two sheets and the
duplicate has to be removed by hand.`,
	Args: cobra.NoArgs,
	RunE: runJournalPending,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalPendingCmd)
}

func runJournalPending(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("journal")

	outputPath, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := commandContext(timeout, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	if !a.cfg.JournalEnabled {
		return fmt.Errorf("the journal is disabled (JOURNAL_ENABLED=false)")
	}

	pending, err := a.engine.Journal().Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	log.Info().Int("pending", len(pending)).Msg("Journal read")
	return writeJSON(pending, outputPath, log)
}
