package lifecycle

import (
	"cashflow/internal/store"
	"cashflow/pkg/models"
)

// KeyColumns locates the composite-key cells within a table's rows.
type KeyColumns struct {
	Network int
	Amount  int
	Date    int
}

var (
	// InvoiceKeyColumns applies to both the Invoices and Paid Invoices tables.
	InvoiceKeyColumns = KeyColumns{Network: 0, Amount: 1, Date: 2}

	// PendingKeyColumns keys To Be Invoiced rows on network, amount and period end.
	PendingKeyColumns = KeyColumns{Network: 0, Amount: 4, Date: 3}
)

// keyColumnsFor returns the key layout of a lifecycle table.
func keyColumnsFor(table store.Table) KeyColumns {
	if table.Name == store.ToBeInvoiced.Name {
		return PendingKeyColumns
	}
	return InvoiceKeyColumns
}

// FindRow returns the index of the first row whose network, parsed amount and
// date cell match key. The date is compared as a string, exactly as stored.
// Duplicate keys resolve to the earliest row. It returns ErrNotFound when
// nothing matches.
func FindRow(rows [][]interface{}, cols KeyColumns, key models.Key) (int, error) {
	for i, row := range rows {
		if models.GetString(row, cols.Network) != key.Network {
			continue
		}
		if !models.ParseAmount(models.GetString(row, cols.Amount)).Equal(key.Amount) {
			continue
		}
		if models.GetString(row, cols.Date) != key.DueDate {
			continue
		}
		return i, nil
	}
	return -1, ErrNotFound
}
