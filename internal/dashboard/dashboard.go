// Package dashboard derives read-only views from a lifecycle snapshot: the
// per-table totals, the outstanding invoices with their due status, and the
// to-do list of periods to invoice and invoices to chase.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"cashflow/internal/lifecycle"
	"cashflow/pkg/models"
)

// TableTotal is the sum and row count of one lifecycle table.
type TableTotal struct {
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
	Count     int             `json:"count"`
}

// Summary is the dashboard overview.
type Summary struct {
	ToBeInvoiced TableTotal            `json:"toBeInvoiced"`
	Outstanding  TableTotal            `json:"outstanding"`
	Paid         TableTotal            `json:"paid"`
	OverdueCount int                   `json:"overdueCount"`
	NetworkTerms []models.NetworkTerms `json:"networkTerms"`
}

// OutstandingInvoice is an Invoices row annotated with its due status.
type OutstandingInvoice struct {
	models.Invoice
	Ref              string           `json:"key"`
	Status           models.DueStatus `json:"status"`
	DueDateFormatted string           `json:"dueDateFormatted"`
}

// TodoItem is a billing period that has ended and still needs an invoice.
type TodoItem struct {
	Network          string          `json:"network"`
	Offer            string          `json:"offer"`
	PeriodEnd        string          `json:"periodEnd"`
	PeriodEndDisplay string          `json:"periodEndFormatted"`
	RunningTotal     decimal.Decimal `json:"runningTotal"`
}

// Todo lists the work an operator has left.
type Todo struct {
	InvoicesToCreate []TodoItem           `json:"invoicesToCreate"`
	FollowUps        []OutstandingInvoice `json:"followUps"`
}

func total(amounts []decimal.Decimal) TableTotal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return TableTotal{Total: sum, Formatted: models.FormatCurrency(sum), Count: len(amounts)}
}

// BuildSummary totals each table and orders network terms by running total,
// largest first.
func BuildSummary(snap *lifecycle.Snapshot, now time.Time) Summary {
	pending := make([]decimal.Decimal, 0, len(snap.ToBeInvoiced))
	for _, p := range snap.ToBeInvoiced {
		pending = append(pending, p.Amount)
	}
	outstanding := make([]decimal.Decimal, 0, len(snap.Invoices))
	overdue := 0
	for _, inv := range snap.Invoices {
		outstanding = append(outstanding, inv.Amount)
		if models.IsOverdue(inv.DueDate, now) {
			overdue++
		}
	}
	paid := make([]decimal.Decimal, 0, len(snap.PaidInvoices))
	for _, inv := range snap.PaidInvoices {
		paid = append(paid, inv.Amount)
	}

	terms := append([]models.NetworkTerms{}, snap.NetworkTerms...)
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].RunningTotal.GreaterThan(terms[j].RunningTotal)
	})

	return Summary{
		ToBeInvoiced: total(pending),
		Outstanding:  total(outstanding),
		Paid:         total(paid),
		OverdueCount: overdue,
		NetworkTerms: terms,
	}
}

// BuildOutstanding annotates every outstanding invoice with its due status.
func BuildOutstanding(snap *lifecycle.Snapshot, now time.Time) []OutstandingInvoice {
	out := make([]OutstandingInvoice, 0, len(snap.Invoices))
	for _, inv := range snap.Invoices {
		out = append(out, OutstandingInvoice{
			Invoice:          inv,
			Ref:              inv.Key().String(),
			Status:           models.StatusFor(inv.DueDate, now),
			DueDateFormatted: models.FormatDate(inv.DueDate),
		})
	}
	return out
}

// BuildTodo lists networks whose period ended before today and outstanding
// invoices that are overdue.
func BuildTodo(snap *lifecycle.Snapshot, now time.Time) Todo {
	today := models.DateOnly(now)
	todo := Todo{InvoicesToCreate: []TodoItem{}, FollowUps: []OutstandingInvoice{}}

	for _, t := range snap.NetworkTerms {
		end, err := models.ParseDate(t.PeriodEnd)
		if err != nil || !models.DateOnly(end).Before(today) {
			continue
		}
		todo.InvoicesToCreate = append(todo.InvoicesToCreate, TodoItem{
			Network:          t.Network,
			Offer:            t.Offer,
			PeriodEnd:        t.PeriodEnd,
			PeriodEndDisplay: models.FormatDate(t.PeriodEnd),
			RunningTotal:     t.RunningTotal,
		})
	}

	for _, inv := range BuildOutstanding(snap, now) {
		if inv.Status == models.StatusOverdue {
			todo.FollowUps = append(todo.FollowUps, inv)
		}
	}
	return todo
}
