// Package store defines the tabular backing-store contract the invoice
// lifecycle depends on.
//
// A table is a named sheet with a header row followed by data rows. Row
// indexes used by this package are zero-based data-row indexes: index 0 is the
// first row below the header. Implementations:
//   - sheets.Service: Google Sheets (production)
//   - store.Memory: in-process tables for tests and local runs
//
// No implementation offers transactions or conditional writes. Callers that
// move a row between tables must append before deleting.
package store

import (
	"context"
	"errors"
)

// Table describes one sheet and the columns it spans.
type Table struct {
	Name    string
	Columns []string
}

// Width is the number of columns in the table.
func (t Table) Width() int {
	return len(t.Columns)
}

// LastColumn is the A1 letter of the table's last column.
func (t Table) LastColumn() string {
	return ColumnLetter(len(t.Columns) - 1)
}

var (
	ToBeInvoiced = Table{
		Name:    "To Be Invoiced",
		Columns: []string{"Network", "Period", "Period Start", "Period End", "Amount", "Dash Amount", "Status"},
	}
	Invoices = Table{
		Name:    "Invoices",
		Columns: []string{"Network", "Amount", "Due Date"},
	}
	PaidInvoices = Table{
		Name:    "Paid Invoices",
		Columns: []string{"Network", "Amount", "Due Date", "Date Paid", "Amount Paid"},
	}
	NetworkTerms = Table{
		Name:    "Network Terms",
		Columns: []string{"Network", "Offer", "Pay Period", "Net Terms", "Period Start", "Period End", "Invoice Due", "Running Total"},
	}
	TransitionLog = Table{
		Name:    "Transition Log",
		Columns: []string{"ID", "Transition", "Network", "Amount", "Due Date", "Status", "Started At", "Completed At"},
	}
)

// Named returns a copy of t that lives under a different sheet name.
func (t Table) Named(name string) Table {
	if name == "" {
		return t
	}
	return Table{Name: name, Columns: t.Columns}
}

// ErrRowOutOfRange is returned when a row index does not exist in the table.
var ErrRowOutOfRange = errors.New("row index out of range")

// Store is the backing-store boundary: get range, append rows, delete a row,
// update cells in place.
type Store interface {
	// GetRows returns every data row of the table, header excluded.
	GetRows(ctx context.Context, table Table) ([][]interface{}, error)

	// AppendRows adds rows after the last data row.
	AppendRows(ctx context.Context, table Table, rows [][]interface{}) error

	// DeleteRow removes the data row at index, shifting later rows up.
	DeleteRow(ctx context.Context, table Table, index int) error

	// UpdateCells overwrites consecutive cells of the data row at index,
	// starting at column firstColumn (zero-based).
	UpdateCells(ctx context.Context, table Table, index, firstColumn int, values []interface{}) error
}

// ColumnLetter converts a zero-based column index to its A1 letter(s).
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

// SheetRow converts a zero-based data-row index to the 1-based sheet row
// number, accounting for the header row.
func SheetRow(index int) int {
	return index + 2
}
