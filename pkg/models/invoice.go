package models

import (
	"github.com/shopspring/decimal"
)

// Invoice is a single invoice as it appears in the Invoices and Paid Invoices
// sheets. It has no durable ID: network, amount and due date together identify it.
type Invoice struct {
	Network string          `json:"network"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"dueDate"` // kept exactly as stored in the sheet

	// Payment details, only set once the invoice is paid
	DatePaid   string           `json:"datePaid,omitempty"`
	AmountPaid *decimal.Decimal `json:"amountPaid,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// PendingInvoice is a row of the To Be Invoiced sheet, produced when a
// network's billing period closes with a positive running total.
type PendingInvoice struct {
	Network     string          `json:"network"`
	PeriodLabel string          `json:"periodLabel"`
	PeriodStart string          `json:"periodStart"`
	PeriodEnd   string          `json:"periodEnd"`
	Amount      decimal.Decimal `json:"amount"`
	DashAmount  decimal.Decimal `json:"dashAmount"`
	Status      string          `json:"status"`
}

// PendingStatus is written to the status column of freshly pushed rows.
const PendingStatus = "Pending"

// AsInvoice returns the invoice view of a pending row. The period end stands in
// for the due date until the invoice is issued.
func (p PendingInvoice) AsInvoice() Invoice {
	return Invoice{
		Network: p.Network,
		Amount:  p.Amount,
		DueDate: p.PeriodEnd,
	}
}

// IsPaid reports whether payment details are present.
func (i Invoice) IsPaid() bool {
	return i.DatePaid != "" && i.AmountPaid != nil
}

// Key returns the invoice's composite identity.
func (i Invoice) Key() Key {
	return Key{Network: i.Network, Amount: i.Amount, DueDate: i.DueDate}
}

// Key is the composite identity (network, amount, due date) used to locate a
// row. Two distinct invoices with identical keys cannot be told apart.
type Key struct {
	Network string          `json:"network"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"dueDate"`
}

// String renders the key the way the dashboard keyed its follow-ups.
func (k Key) String() string {
	return k.Network + "-" + k.Amount.String() + "-" + k.DueDate
}
