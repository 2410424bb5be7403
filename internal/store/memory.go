package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. It is safe for concurrent use and can be
// told to fail specific operations, which is how partial moves are exercised.
type Memory struct {
	mu     sync.Mutex
	tables map[string][][]interface{}
	fail   map[string]error
	calls  []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string][][]interface{}),
		fail:   make(map[string]error),
	}
}

// Seed replaces the rows of a table.
func (m *Memory) Seed(table Table, rows ...[]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.Name] = copyRows(rows)
}

// Rows returns a copy of the current rows of a table.
func (m *Memory) Rows(table Table) [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.tables[table.Name])
}

// FailOn makes the named operation ("get", "append", "delete", "update") on
// table return err until cleared with a nil error.
func (m *Memory) FailOn(op string, table Table, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := op + ":" + table.Name
	if err == nil {
		delete(m.fail, key)
		return
	}
	m.fail[key] = err
}

// Calls lists the mutating operations performed so far, e.g. "append:Invoices".
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Memory) GetRows(ctx context.Context, table Table) ([][]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["get:"+table.Name]; err != nil {
		return nil, err
	}
	return copyRows(m.tables[table.Name]), nil
}

func (m *Memory) AppendRows(ctx context.Context, table Table, rows [][]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["append:"+table.Name]; err != nil {
		return err
	}
	m.tables[table.Name] = append(m.tables[table.Name], copyRows(rows)...)
	m.calls = append(m.calls, "append:"+table.Name)
	return nil
}

func (m *Memory) DeleteRow(ctx context.Context, table Table, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["delete:"+table.Name]; err != nil {
		return err
	}
	rows := m.tables[table.Name]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("delete %s row %d: %w", table.Name, index, ErrRowOutOfRange)
	}
	m.tables[table.Name] = append(rows[:index:index], rows[index+1:]...)
	m.calls = append(m.calls, "delete:"+table.Name)
	return nil
}

func (m *Memory) UpdateCells(ctx context.Context, table Table, index, firstColumn int, values []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["update:"+table.Name]; err != nil {
		return err
	}
	rows := m.tables[table.Name]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("update %s row %d: %w", table.Name, index, ErrRowOutOfRange)
	}
	row := rows[index]
	for len(row) < firstColumn+len(values) {
		row = append(row, "")
	}
	copy(row[firstColumn:], values)
	rows[index] = row
	m.calls = append(m.calls, "update:"+table.Name)
	return nil
}

func copyRows(rows [][]interface{}) [][]interface{} {
	if rows == nil {
		return nil
	}
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = append([]interface{}(nil), row...)
	}
	return out
}
