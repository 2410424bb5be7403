package cmd

import (
	"github.com/spf13/cobra"

	"cashflow/internal/logger"
	"cashflow/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the invoice lifecycle HTTP API",
	Long: `Start the HTTP API used by the dashboard.

Endpoints:
  POST /invoices   markAsInvoiced, markAsPaid, undoPaid, updatePaymentDetails, deleteInvoice
  POST /networks   pushMultipleToBeInvoiced, updateDashAmount
  GET  /networks   snapshot of all tables
  GET  /dashboard  totals and outstanding invoices
  GET  /todo       periods to invoice and overdue invoices
  GET  /journal/pending  interrupted transitions
  GET  /health

Every route is also available under /api.`,
	Example: `  # Serve on the port from PORT (default 3005)
  cashflow serve

  # Serve on a different port
  cashflow serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	ctx, cancel := commandContext(0, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		a.cfg.Port = port
	}

	srv := server.New(a.engine, server.Options{
		Addr:      a.cfg.Addr(),
		RateLimit: a.cfg.RateLimitPerSecond,
		Burst:     a.cfg.RateLimitBurst,
	})

	log.Info().
		Int("port", a.cfg.Port).
		Bool("journal", a.cfg.JournalEnabled).
		Str("backend", a.cfg.StoreBackend).
		Msg("Starting cashflow API")

	return srv.Run(ctx)
}
