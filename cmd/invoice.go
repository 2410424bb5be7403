package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cashflow/internal/lifecycle"
	"cashflow/internal/logger"
	"cashflow/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice <action>",
	Short: "Move an invoice through its lifecycle",
	Long: `Apply a lifecycle transition to one invoice.

The invoice is identified by network, amount and due date, exactly as they
appear in the spreadsheet. For invoices still in "To Be Invoiced" the due
date is the period end.

Actions:
  markAsInvoiced        To Be Invoiced -> Invoices
  markAsPaid            Invoices -> Paid Invoices (needs --date-paid and --amount-paid)
  undoPaid              Paid Invoices -> Invoices
  updatePaymentDetails  rewrite date and amount paid of a paid invoice
  deleteInvoice         remove from Invoices, or from Paid Invoices`,
	Example: `  # Record a payment
  cashflow invoice markAsPaid --network AcmeNet --amount 500 --due-date 2024-02-01 \
    --date-paid 2024-02-05 --amount-paid 500

  # Undo it
  cashflow invoice undoPaid --network AcmeNet --amount 500 --due-date 2024-02-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{lifecycle.ActionMarkAsInvoiced, lifecycle.ActionMarkAsPaid, lifecycle.ActionUndoPaid, lifecycle.ActionUpdatePaymentDetails, lifecycle.ActionDeleteInvoice},
	RunE:      runInvoice,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	invoiceCmd.Flags().String("network", "", "Network name")
	invoiceCmd.Flags().String("amount", "", "Invoice amount, e.g. 500 or $1,234.56")
	invoiceCmd.Flags().String("due-date", "", "Due date as stored in the sheet")
	invoiceCmd.Flags().String("date-paid", "", "Date the payment arrived")
	invoiceCmd.Flags().String("amount-paid", "", "Amount received")

	_ = invoiceCmd.MarkFlagRequired("network")
	_ = invoiceCmd.MarkFlagRequired("amount")
	_ = invoiceCmd.MarkFlagRequired("due-date")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	network, _ := cmd.Flags().GetString("network")
	amount, _ := cmd.Flags().GetString("amount")
	dueDate, _ := cmd.Flags().GetString("due-date")
	datePaid, _ := cmd.Flags().GetString("date-paid")
	amountPaid, _ := cmd.Flags().GetString("amount-paid")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	inv := models.Invoice{
		Network: strings.TrimSpace(network),
		Amount:  models.ParseAmount(amount),
		DueDate: strings.TrimSpace(dueDate),
	}
	var paid *decimal.Decimal
	if strings.TrimSpace(amountPaid) != "" {
		parsed, err := models.ParseAmountStrict(amountPaid)
		if err != nil {
			return fmt.Errorf("--amount-paid: %w", err)
		}
		paid = models.AmountPtr(parsed)
	}

	transition, err := lifecycle.ParseTransition(args[0], inv, datePaid, paid)
	if err != nil {
		return handleTransitionError(err, log)
	}

	ctx, cancel := commandContext(timeout, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	if err := a.engine.Apply(ctx, transition); err != nil {
		return handleTransitionError(err, log)
	}

	fmt.Printf("%s: %s %s due %s\n", transition.Action(), inv.Network, models.FormatCurrency(inv.Amount), models.FormatDate(inv.DueDate))
	return nil
}

// handleTransitionError turns a lifecycle error into an operator-facing message
func handleTransitionError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Str("kind", string(lifecycle.KindOf(err))).Msg("Transition failed")

	switch {
	case errors.Is(err, lifecycle.ErrInvalidAction):
		return fmt.Errorf("unknown action. Use one of: markAsInvoiced, markAsPaid, undoPaid, updatePaymentDetails, deleteInvoice")
	case errors.Is(err, lifecycle.ErrMissingPaymentDetails):
		return fmt.Errorf("both --date-paid and --amount-paid are required for this action")
	case errors.Is(err, lifecycle.ErrNotFound):
		return fmt.Errorf("%s. Check network, amount and due date against the sheet", lifecycle.DetailsOf(err))
	default:
		return fmt.Errorf("spreadsheet update failed: %s", lifecycle.DetailsOf(err))
	}
}
