package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/internal/lifecycle"
	"cashflow/pkg/models"
)

var now = time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)

func snapshot() *lifecycle.Snapshot {
	return &lifecycle.Snapshot{
		NetworkTerms: []models.NetworkTerms{
			{Network: "Small", Offer: "CPA", PeriodEnd: "2024-02-20", RunningTotal: decimal.NewFromInt(10)},
			{Network: "Big", Offer: "CPL", PeriodEnd: "2024-02-03", RunningTotal: decimal.NewFromInt(900)},
			{Network: "Today", Offer: "CPS", PeriodEnd: "10/02/2024", RunningTotal: decimal.NewFromInt(5)},
		},
		ToBeInvoiced: []models.PendingInvoice{
			{Network: "Big", PeriodEnd: "2024-01-27", Amount: decimal.RequireFromString("1000.50")},
		},
		Invoices: []models.Invoice{
			{Network: "AcmeNet", Amount: decimal.NewFromInt(500), DueDate: "2024-02-01"},
			{Network: "Beta", Amount: decimal.NewFromInt(250), DueDate: "2024-02-15"},
			{Network: "Gamma", Amount: decimal.NewFromInt(100), DueDate: "2024-03-30"},
			{Network: "Broken", Amount: decimal.NewFromInt(1), DueDate: "someday"},
		},
		PaidInvoices: []models.Invoice{
			{Network: "Old", Amount: decimal.NewFromInt(75), DueDate: "2024-01-01"},
		},
	}
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary(snapshot(), now)

	assert.Equal(t, "$1,000.50", s.ToBeInvoiced.Formatted)
	assert.Equal(t, 1, s.ToBeInvoiced.Count)
	assert.True(t, decimal.NewFromInt(851).Equal(s.Outstanding.Total))
	assert.Equal(t, 4, s.Outstanding.Count)
	assert.Equal(t, "$75.00", s.Paid.Formatted)
	assert.Equal(t, 1, s.OverdueCount)

	require.Len(t, s.NetworkTerms, 3)
	assert.Equal(t, "Big", s.NetworkTerms[0].Network)
	assert.Equal(t, "Small", s.NetworkTerms[1].Network)
	assert.Equal(t, "Today", s.NetworkTerms[2].Network)
}

func TestBuildOutstanding(t *testing.T) {
	out := BuildOutstanding(snapshot(), now)
	require.Len(t, out, 4)

	assert.Equal(t, models.StatusOverdue, out[0].Status)
	assert.Equal(t, "01/02/2024", out[0].DueDateFormatted)
	assert.Equal(t, "AcmeNet-500-2024-02-01", out[0].Ref)
	assert.Equal(t, models.StatusDueSoon, out[1].Status)
	assert.Equal(t, models.StatusNotDue, out[2].Status)
	assert.Equal(t, models.StatusUnknown, out[3].Status)
	assert.Equal(t, models.InvalidDate, out[3].DueDateFormatted)
}

func TestBuildTodo(t *testing.T) {
	todo := BuildTodo(snapshot(), now)

	require.Len(t, todo.InvoicesToCreate, 1)
	assert.Equal(t, "Big", todo.InvoicesToCreate[0].Network)
	assert.Equal(t, "03/02/2024", todo.InvoicesToCreate[0].PeriodEndDisplay)

	require.Len(t, todo.FollowUps, 1)
	assert.Equal(t, "AcmeNet", todo.FollowUps[0].Network)
}

func TestEmptySnapshot(t *testing.T) {
	snap := &lifecycle.Snapshot{}
	s := BuildSummary(snap, now)
	assert.Equal(t, "$0.00", s.Outstanding.Formatted)
	assert.Empty(t, BuildTodo(snap, now).FollowUps)
}
