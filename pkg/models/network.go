package models

import (
	"github.com/shopspring/decimal"
)

// NetworkTerms is a row of the Network Terms sheet: the billing cycle and the
// unbilled running total of one network/offer pair.
type NetworkTerms struct {
	Network      string          `json:"network"`
	Offer        string          `json:"offer"`
	PayPeriod    int             `json:"payPeriod"` // days
	NetTerms     int             `json:"netTerms"`  // days
	PeriodStart  string          `json:"periodStart"`
	PeriodEnd    string          `json:"periodEnd"`
	InvoiceDue   string          `json:"invoiceDue"`
	RunningTotal decimal.Decimal `json:"runningTotal"`
}

// HasUnbilled reports whether the running total is positive.
func (n NetworkTerms) HasUnbilled() bool {
	return n.RunningTotal.IsPositive()
}
