package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/store"
	"cashflow/pkg/models"
)

// Journal statuses.
const (
	JournalPending = "pending"
	JournalDone    = "done"
	JournalAborted = "aborted"
)

// JournalEntry records one in-flight or finished table move.
type JournalEntry struct {
	ID          string `json:"id"`
	Transition  string `json:"transition"`
	Network     string `json:"network"`
	Amount      string `json:"amount"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	StartedAt   string `json:"startedAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// Journal persists a marker before a move touches any table. The entry is
// completed once both steps succeeded and aborted when the first write failed
// and nothing changed. An entry left pending means the move was interrupted
// after its destination row was written and the invoice may be duplicated.
type Journal interface {
	Begin(ctx context.Context, transition string, key models.Key) (string, error)
	Complete(ctx context.Context, id string) error
	Abort(ctx context.Context, id string) error
	Pending(ctx context.Context) ([]JournalEntry, error)
}

// NopJournal records nothing.
type NopJournal struct{}

func (NopJournal) Begin(context.Context, string, models.Key) (string, error) { return "", nil }
func (NopJournal) Complete(context.Context, string) error                    { return nil }
func (NopJournal) Abort(context.Context, string) error                       { return nil }
func (NopJournal) Pending(context.Context) ([]JournalEntry, error)           { return nil, nil }

// TableJournal keeps journal entries as rows of a store table.
type TableJournal struct {
	store store.Store
	table store.Table
	now   func() time.Time
}

// NewTableJournal returns a journal writing to table in st.
func NewTableJournal(st store.Store, table store.Table) *TableJournal {
	return &TableJournal{store: st, table: table, now: time.Now}
}

func (j *TableJournal) Begin(ctx context.Context, transition string, key models.Key) (string, error) {
	const op = "JournalBegin"

	id := uuid.NewString()
	row := []interface{}{
		id,
		transition,
		key.Network,
		key.Amount.String(),
		key.DueDate,
		JournalPending,
		j.now().UTC().Format(time.RFC3339),
		"",
	}
	if err := j.store.AppendRows(ctx, j.table, [][]interface{}{row}); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (j *TableJournal) Complete(ctx context.Context, id string) error {
	return j.finish(ctx, "JournalComplete", id, JournalDone)
}

func (j *TableJournal) Abort(ctx context.Context, id string) error {
	return j.finish(ctx, "JournalAbort", id, JournalAborted)
}

// finish closes the entry id with status. The whole log is read to locate the
// row, so each call grows with the number of entries ever recorded.
func (j *TableJournal) finish(ctx context.Context, op, id, status string) error {
	if id == "" {
		return nil
	}
	rows, err := j.store.GetRows(ctx, j.table)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, row := range rows {
		if models.GetString(row, 0) != id {
			continue
		}
		err := j.store.UpdateCells(ctx, j.table, i, 5, []interface{}{status, j.now().UTC().Format(time.RFC3339)})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	return fmt.Errorf("%s: journal entry %s not found", op, id)
}

func (j *TableJournal) Pending(ctx context.Context) ([]JournalEntry, error) {
	const op = "JournalPending"

	rows, err := j.store.GetRows(ctx, j.table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var pending []JournalEntry
	for _, row := range rows {
		entry := JournalEntry{
			ID:          models.GetString(row, 0),
			Transition:  models.GetString(row, 1),
			Network:     models.GetString(row, 2),
			Amount:      models.GetString(row, 3),
			DueDate:     models.GetString(row, 4),
			Status:      models.GetString(row, 5),
			StartedAt:   models.GetString(row, 6),
			CompletedAt: models.GetString(row, 7),
		}
		if entry.Status == JournalPending {
			pending = append(pending, entry)
		}
	}
	return pending, nil
}
