package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceFromRow parses an Invoices row: A=network, B=amount, C=dueDate.
func InvoiceFromRow(row []interface{}) Invoice {
	return Invoice{
		Network: GetString(row, 0),
		Amount:  ParseAmount(GetString(row, 1)),
		DueDate: GetString(row, 2),
	}
}

// PaidInvoiceFromRow parses a Paid Invoices row:
// A=network, B=amount, C=dueDate, D=datePaid, E=amountPaid.
func PaidInvoiceFromRow(row []interface{}) Invoice {
	inv := InvoiceFromRow(row)
	inv.DatePaid = GetString(row, 3)
	if raw := GetString(row, 4); raw != "" {
		paid := ParseAmount(raw)
		inv.AmountPaid = &paid
	}
	return inv
}

// PendingInvoiceFromRow parses a To Be Invoiced row: A=network, B=period label,
// C=periodStart, D=periodEnd, E=amount, F=dashAmount, G=status.
func PendingInvoiceFromRow(row []interface{}) PendingInvoice {
	return PendingInvoice{
		Network:     GetString(row, 0),
		PeriodLabel: GetString(row, 1),
		PeriodStart: GetString(row, 2),
		PeriodEnd:   GetString(row, 3),
		Amount:      ParseAmount(GetString(row, 4)),
		DashAmount:  ParseAmount(GetString(row, 5)),
		Status:      GetString(row, 6),
	}
}

// NetworkTermsFromRow parses a Network Terms row: A=network, B=offer,
// C=payPeriod, D=netTerms, E=periodStart, F=periodEnd, G=invoiceDue, H=runningTotal.
func NetworkTermsFromRow(row []interface{}) NetworkTerms {
	return NetworkTerms{
		Network:      GetString(row, 0),
		Offer:        GetString(row, 1),
		PayPeriod:    ParsePayPeriod(GetString(row, 2)),
		NetTerms:     int(ParseAmount(GetString(row, 3)).IntPart()),
		PeriodStart:  GetString(row, 4),
		PeriodEnd:    GetString(row, 5),
		InvoiceDue:   GetString(row, 6),
		RunningTotal: ParseAmount(GetString(row, 7)),
	}
}

// ParsePayPeriod reads a pay period cell as a day count. Named cadences are
// accepted alongside plain numbers.
func ParsePayPeriod(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "weekly":
		return 7
	case "biweekly", "bi-weekly":
		return 14
	case "monthly":
		return 30
	}
	return int(ParseAmount(value).IntPart())
}

// Row renders an invoice as an Invoices row.
func (i Invoice) Row() []interface{} {
	return []interface{}{
		i.Network,         // A: network
		i.Amount.String(), // B: amount
		i.DueDate,         // C: dueDate
	}
}

// PaidRow renders an invoice as a Paid Invoices row.
func (i Invoice) PaidRow() []interface{} {
	amountPaid := ""
	if i.AmountPaid != nil {
		amountPaid = i.AmountPaid.String()
	}
	return []interface{}{
		i.Network,         // A: network
		i.Amount.String(), // B: amount
		i.DueDate,         // C: dueDate
		i.DatePaid,        // D: datePaid
		amountPaid,        // E: amountPaid
	}
}

// Row renders a pending invoice as a To Be Invoiced row.
func (p PendingInvoice) Row() []interface{} {
	return []interface{}{
		p.Network,             // A: network
		p.PeriodLabel,         // B: period label
		p.PeriodStart,         // C: periodStart
		p.PeriodEnd,           // D: periodEnd
		p.Amount.String(),     // E: amount
		p.DashAmount.String(), // F: dashAmount
		p.Status,              // G: status
	}
}

// PeriodCells renders columns E:H of a Network Terms row, the part rewritten
// when a billing period rolls forward.
func (n NetworkTerms) PeriodCells() []interface{} {
	return []interface{}{
		n.PeriodStart,           // E: periodStart
		n.PeriodEnd,             // F: periodEnd
		n.InvoiceDue,            // G: invoiceDue
		n.RunningTotal.String(), // H: runningTotal
	}
}

// Row renders the full Network Terms row.
func (n NetworkTerms) Row() []interface{} {
	return append([]interface{}{
		n.Network,
		n.Offer,
		fmt.Sprintf("%d", n.PayPeriod),
		fmt.Sprintf("%d", n.NetTerms),
	}, n.PeriodCells()...)
}

// AmountPtr is a small helper for optional amounts.
func AmountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// GetString safely extracts a cell as a trimmed string.
func GetString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}
