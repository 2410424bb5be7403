package lifecycle

import (
	"strings"

	"github.com/shopspring/decimal"

	"cashflow/pkg/models"
)

// State is the lifecycle position of an invoice, given by the table holding it.
type State string

const (
	StatePending     State = "Pending"
	StateOutstanding State = "Outstanding"
	StatePaid        State = "Paid"
)

// Action names as they appear on the wire.
const (
	ActionMarkAsInvoiced       = "markAsInvoiced"
	ActionMarkAsPaid           = "markAsPaid"
	ActionUndoPaid             = "undoPaid"
	ActionUpdatePaymentDetails = "updatePaymentDetails"
	ActionDeleteInvoice        = "deleteInvoice"
)

// Transition is a request to change an invoice's lifecycle state. The set of
// implementations is closed; Engine.Apply switches over all of them.
type Transition interface {
	// Action returns the wire name of the transition.
	Action() string
	// Target returns the invoice the transition applies to.
	Target() models.Invoice

	transition()
}

// MarkAsInvoiced moves an invoice from To Be Invoiced to Invoices.
type MarkAsInvoiced struct {
	Invoice models.Invoice
}

// MarkAsPaid moves an invoice from Invoices to Paid Invoices.
type MarkAsPaid struct {
	Invoice    models.Invoice
	DatePaid   string
	AmountPaid *decimal.Decimal
}

// UndoPaid moves an invoice from Paid Invoices back to Invoices, dropping its
// payment details.
type UndoPaid struct {
	Invoice models.Invoice
}

// UpdatePaymentDetails rewrites the payment cells of a paid invoice.
type UpdatePaymentDetails struct {
	Invoice    models.Invoice
	DatePaid   string
	AmountPaid *decimal.Decimal
}

// DeleteInvoice removes an invoice from Invoices, or from Paid Invoices when
// it is not outstanding.
type DeleteInvoice struct {
	Invoice models.Invoice
}

func (t MarkAsInvoiced) Action() string       { return ActionMarkAsInvoiced }
func (t MarkAsPaid) Action() string           { return ActionMarkAsPaid }
func (t UndoPaid) Action() string             { return ActionUndoPaid }
func (t UpdatePaymentDetails) Action() string { return ActionUpdatePaymentDetails }
func (t DeleteInvoice) Action() string        { return ActionDeleteInvoice }

func (t MarkAsInvoiced) Target() models.Invoice       { return t.Invoice }
func (t MarkAsPaid) Target() models.Invoice           { return t.Invoice }
func (t UndoPaid) Target() models.Invoice             { return t.Invoice }
func (t UpdatePaymentDetails) Target() models.Invoice { return t.Invoice }
func (t DeleteInvoice) Target() models.Invoice        { return t.Invoice }

func (MarkAsInvoiced) transition()       {}
func (MarkAsPaid) transition()           {}
func (UndoPaid) transition()             {}
func (UpdatePaymentDetails) transition() {}
func (DeleteInvoice) transition()        {}

// ParseTransition maps a wire action onto its transition. Payment details are
// taken from the explicit arguments first, then from the invoice itself.
func ParseTransition(action string, invoice models.Invoice, datePaid string, amountPaid *decimal.Decimal) (Transition, error) {
	if datePaid == "" {
		datePaid = invoice.DatePaid
	}
	if amountPaid == nil {
		amountPaid = invoice.AmountPaid
	}
	datePaid = strings.TrimSpace(datePaid)

	switch action {
	case ActionMarkAsInvoiced:
		return MarkAsInvoiced{Invoice: invoice}, nil
	case ActionMarkAsPaid:
		return MarkAsPaid{Invoice: invoice, DatePaid: datePaid, AmountPaid: amountPaid}, nil
	case ActionUndoPaid:
		return UndoPaid{Invoice: invoice}, nil
	case ActionUpdatePaymentDetails:
		return UpdatePaymentDetails{Invoice: invoice, DatePaid: datePaid, AmountPaid: amountPaid}, nil
	case ActionDeleteInvoice:
		return DeleteInvoice{Invoice: invoice}, nil
	}
	return nil, InvalidAction(action)
}
