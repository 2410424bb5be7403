package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed(Invoices, []interface{}{"A", "1", "2024-01-01"}, []interface{}{"B", "2", "2024-01-02"})

	require.NoError(t, m.AppendRows(ctx, Invoices, [][]interface{}{{"C", "3", "2024-01-03"}}))
	require.NoError(t, m.DeleteRow(ctx, Invoices, 0))
	require.NoError(t, m.UpdateCells(ctx, Invoices, 1, 1, []interface{}{"30"}))

	rows, err := m.GetRows(ctx, Invoices)
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{
		{"B", "2", "2024-01-02"},
		{"C", "30", "2024-01-03"},
	}, rows)
	assert.Equal(t, []string{"append:Invoices", "delete:Invoices", "update:Invoices"}, m.Calls())
}

func TestMemoryUpdateExtendsShortRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed(PaidInvoices, []interface{}{"A", "1", "2024-01-01"})

	require.NoError(t, m.UpdateCells(ctx, PaidInvoices, 0, 3, []interface{}{"2024-01-05", "1"}))
	assert.Equal(t, []interface{}{"A", "1", "2024-01-01", "2024-01-05", "1"}, m.Rows(PaidInvoices)[0])
}

func TestMemoryFailures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("boom")

	m.FailOn("append", Invoices, boom)
	assert.ErrorIs(t, m.AppendRows(ctx, Invoices, [][]interface{}{{"x"}}), boom)
	m.FailOn("append", Invoices, nil)
	assert.NoError(t, m.AppendRows(ctx, Invoices, [][]interface{}{{"x"}}))

	assert.ErrorIs(t, m.DeleteRow(ctx, Invoices, 5), ErrRowOutOfRange)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", ColumnLetter(0))
	assert.Equal(t, "H", ColumnLetter(7))
	assert.Equal(t, "Z", ColumnLetter(25))
	assert.Equal(t, "AA", ColumnLetter(26))
	assert.Equal(t, "C", Invoices.LastColumn())
	assert.Equal(t, "G", ToBeInvoiced.LastColumn())
	assert.Equal(t, 2, SheetRow(0))
}
