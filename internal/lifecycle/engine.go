// Package lifecycle implements the invoice state machine and its
// synchronization contract with the backing store.
//
// An invoice's state is the table holding it: To Be Invoiced (Pending),
// Invoices (Outstanding) or Paid Invoices (Paid). Moving between states is a
// two-step mutation with no transaction around it: the destination row is
// appended first and the source row deleted second, so an interrupted move
// leaves a visible duplicate rather than losing the invoice.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cashflow/internal/logger"
	"cashflow/internal/store"
	"cashflow/pkg/models"
)

// DefaultStoreTimeout bounds every individual store call.
const DefaultStoreTimeout = 15 * time.Second

// Engine applies transitions and pushes against a store. Calls on one Engine
// are serialized; nothing guards against a second process editing the same
// spreadsheet.
type Engine struct {
	store   store.Store
	journal Journal
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal records every move in j.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithStoreTimeout sets the per-call store timeout.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine over st.
func NewEngine(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		journal: NopJournal{},
		timeout: DefaultStoreTimeout,
		now:     time.Now,
		log:     logger.WithComponent("lifecycle"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Journal returns the journal moves are recorded in.
func (e *Engine) Journal() Journal {
	return e.journal
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Apply executes a transition. On success the invoice's key is present in
// exactly one lifecycle table.
func (e *Engine) Apply(ctx context.Context, t Transition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := t.Target().Key()
	log := e.log.With().
		Str("action", t.Action()).
		Str("network", key.Network).
		Str("amount", key.Amount.String()).
		Str("due_date", key.DueDate).
		Logger()

	var err error
	switch t := t.(type) {
	case MarkAsInvoiced:
		err = e.move(ctx, t.Action(), key, store.ToBeInvoiced, store.Invoices, t.Invoice.Row())
	case MarkAsPaid:
		if t.DatePaid == "" || t.AmountPaid == nil {
			err = missingPaymentDetails(t.Action())
			break
		}
		paid := t.Invoice
		paid.DatePaid = t.DatePaid
		paid.AmountPaid = t.AmountPaid
		err = e.move(ctx, t.Action(), key, store.Invoices, store.PaidInvoices, paid.PaidRow())
	case UndoPaid:
		outstanding := models.Invoice{Network: key.Network, Amount: key.Amount, DueDate: key.DueDate}
		err = e.move(ctx, t.Action(), key, store.PaidInvoices, store.Invoices, outstanding.Row())
	case UpdatePaymentDetails:
		err = e.updatePaymentDetails(ctx, t)
	case DeleteInvoice:
		err = e.deleteInvoice(ctx, key)
	default:
		err = InvalidAction(t.Action())
	}

	if err != nil {
		log.Warn().Err(err).Str("kind", string(KindOf(err))).Msg("transition failed")
		return err
	}
	log.Info().Msg("transition applied")
	return nil
}

// move relocates the row keyed by key from src to dst. The source is matched
// before anything is written so a missing invoice fails cleanly.
func (e *Engine) move(ctx context.Context, op string, key models.Key, src, dst store.Table, row []interface{}) error {
	if _, err := e.find(ctx, op, src, key); err != nil {
		return err
	}

	jctx, cancel := e.callContext(ctx)
	id, err := e.journal.Begin(jctx, op, key)
	cancel()
	if err != nil {
		return storeUnavailable(op, err, "could not record transition in journal")
	}

	if err := e.call(ctx, func(ctx context.Context) error {
		return e.store.AppendRows(ctx, dst, [][]interface{}{row})
	}); err != nil {
		if appendMayHaveLanded(err) {
			return storeUnavailable(op, err, fmt.Sprintf("append to %s did not finish; check %s for a duplicate of %s",
				dst.Name, dst.Name, key.String()))
		}
		e.abort(ctx, id)
		return storeUnavailable(op, err, fmt.Sprintf("append to %s failed", dst.Name))
	}

	// Rows may have shifted since the first match.
	index, err := e.find(ctx, op, src, key)
	if IsKind(err, KindNotFound) {
		return storeUnavailable(op, errors.New(DetailsOf(err)),
			fmt.Sprintf("invoice %s was added to %s but the source row was no longer present in %s",
				key.String(), dst.Name, src.Name))
	}
	if err != nil {
		return storeUnavailable(op, causeOf(err), duplicateDetails(key, src, dst))
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.store.DeleteRow(ctx, src, index)
	}); err != nil {
		return storeUnavailable(op, err, duplicateDetails(key, src, dst))
	}

	jctx, cancel = e.callContext(ctx)
	defer cancel()
	if err := e.journal.Complete(jctx, id); err != nil {
		// The move itself succeeded.
		e.log.Warn().Err(err).Str("journal_id", id).Msg("failed to complete journal entry")
	}
	return nil
}

// abort closes the journal entry of a move that wrote nothing.
func (e *Engine) abort(ctx context.Context, id string) {
	jctx, cancel := e.callContext(ctx)
	defer cancel()
	if err := e.journal.Abort(jctx, id); err != nil {
		e.log.Warn().Err(err).Str("journal_id", id).Msg("failed to abort journal entry")
	}
}

// appendMayHaveLanded reports whether a failed append could still have been
// applied by the store: a request cut off by its deadline may have reached it.
func appendMayHaveLanded(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func duplicateDetails(key models.Key, src, dst store.Table) string {
	return fmt.Sprintf("invoice %s was added to %s but not removed from %s; remove the duplicate manually",
		key.String(), dst.Name, src.Name)
}

func (e *Engine) updatePaymentDetails(ctx context.Context, t UpdatePaymentDetails) error {
	op := t.Action()
	if t.DatePaid == "" || t.AmountPaid == nil {
		return missingPaymentDetails(op)
	}

	index, err := e.find(ctx, op, store.PaidInvoices, t.Invoice.Key())
	if err != nil {
		return err
	}
	values := []interface{}{t.DatePaid, t.AmountPaid.String()}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.store.UpdateCells(ctx, store.PaidInvoices, index, 3, values)
	}); err != nil {
		return storeUnavailable(op, err, "update of payment details failed")
	}
	return nil
}

func (e *Engine) deleteInvoice(ctx context.Context, key models.Key) error {
	const op = ActionDeleteInvoice

	for _, table := range []store.Table{store.Invoices, store.PaidInvoices} {
		index, err := e.find(ctx, op, table, key)
		if IsKind(err, KindNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.store.DeleteRow(ctx, table, index)
		}); err != nil {
			return storeUnavailable(op, err, fmt.Sprintf("delete from %s failed", table.Name))
		}
		return nil
	}
	return notFound(op, fmt.Sprintf("invoice %s not found", key.String()))
}

// find reads table and returns the index of the row keyed by key.
func (e *Engine) find(ctx context.Context, op string, table store.Table, key models.Key) (int, error) {
	rows, err := e.rows(ctx, op, table)
	if err != nil {
		return -1, err
	}
	index, err := FindRow(rows, keyColumnsFor(table), key)
	if err != nil {
		return -1, notFound(op, fmt.Sprintf("invoice %s not found in %s", key.String(), table.Name))
	}
	return index, nil
}

func (e *Engine) rows(ctx context.Context, op string, table store.Table) ([][]interface{}, error) {
	var rows [][]interface{}
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		rows, err = e.store.GetRows(ctx, table)
		return err
	})
	if err != nil {
		return nil, storeUnavailable(op, err, fmt.Sprintf("read of %s failed", table.Name))
	}
	return rows, nil
}

func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// call runs one store operation under the per-call timeout.
func (e *Engine) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := e.callContext(ctx)
	defer cancel()
	return fn(ctx)
}

// Snapshot is a point-in-time read of all four tables.
type Snapshot struct {
	NetworkTerms []models.NetworkTerms   `json:"networkTerms"`
	ToBeInvoiced []models.PendingInvoice `json:"toBeInvoiced"`
	Invoices     []models.Invoice        `json:"invoices"`
	PaidInvoices []models.Invoice        `json:"paidInvoices"`
}

// Snapshot reads every table. Tables are read one after another, so the
// result is not atomic across tables.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	const op = "snapshot"

	snap := &Snapshot{
		NetworkTerms: []models.NetworkTerms{},
		ToBeInvoiced: []models.PendingInvoice{},
		Invoices:     []models.Invoice{},
		PaidInvoices: []models.Invoice{},
	}

	rows, err := e.rows(ctx, op, store.NetworkTerms)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if models.GetString(row, 0) == "" {
			continue
		}
		snap.NetworkTerms = append(snap.NetworkTerms, models.NetworkTermsFromRow(row))
	}

	if rows, err = e.rows(ctx, op, store.ToBeInvoiced); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if models.GetString(row, 0) == "" {
			continue
		}
		snap.ToBeInvoiced = append(snap.ToBeInvoiced, models.PendingInvoiceFromRow(row))
	}

	if rows, err = e.rows(ctx, op, store.Invoices); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if models.GetString(row, 0) == "" {
			continue
		}
		snap.Invoices = append(snap.Invoices, models.InvoiceFromRow(row))
	}

	if rows, err = e.rows(ctx, op, store.PaidInvoices); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if models.GetString(row, 0) == "" {
			continue
		}
		snap.PaidInvoices = append(snap.PaidInvoices, models.PaidInvoiceFromRow(row))
	}

	return snap, nil
}
