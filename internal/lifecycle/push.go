package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cashflow/internal/store"
	"cashflow/pkg/models"
)

// Network action names as they appear on the wire.
const (
	ActionPushToBeInvoiced = "pushMultipleToBeInvoiced"
	ActionUpdateDashAmount = "updateDashAmount"
)

// SkippedNetwork explains why a requested network was not pushed.
type SkippedNetwork struct {
	Network string `json:"network"`
	Reason  string `json:"reason"`
}

// PushResult reports the outcome of a batch push.
type PushResult struct {
	UpdatedNetworks []string         `json:"updatedNetworks"`
	Skipped         []SkippedNetwork `json:"skipped"`
}

// eligibleRow is a Network Terms row selected for pushing, with its index.
type eligibleRow struct {
	index int
	terms models.NetworkTerms
}

// PushToBeInvoiced closes the billing period of each requested network whose
// running total is positive and whose period ended on or before now. Every
// eligible row gets a To Be Invoiced entry, then its Network Terms row is
// reset and rolled forward. The pending row is always written before the
// reset, so a failure in between leaves the total billed twice rather than
// lost.
func (e *Engine) PushToBeInvoiced(ctx context.Context, networks []string, now time.Time) (*PushResult, error) {
	const op = ActionPushToBeInvoiced

	e.mu.Lock()
	defer e.mu.Unlock()

	result := &PushResult{UpdatedNetworks: []string{}, Skipped: []SkippedNetwork{}}

	requested := make(map[string]bool, len(networks))
	for _, n := range networks {
		if n = strings.TrimSpace(n); n != "" {
			requested[n] = true
		}
	}
	if len(requested) == 0 {
		return result, nil
	}

	rows, err := e.rows(ctx, op, store.NetworkTerms)
	if err != nil {
		return nil, err
	}

	today := models.DateOnly(now)
	seen := make(map[string]bool)
	reasons := make(map[string]string)
	var eligible []eligibleRow

	for i, row := range rows {
		terms := models.NetworkTermsFromRow(row)
		if !requested[terms.Network] {
			continue
		}
		seen[terms.Network] = true

		end, err := models.ParseDate(terms.PeriodEnd)
		switch {
		case !terms.HasUnbilled():
			reasons[terms.Network] = "running total is zero"
		case err != nil:
			reasons[terms.Network] = fmt.Sprintf("period end %q is not a date", terms.PeriodEnd)
		case models.DateOnly(end).After(today):
			reasons[terms.Network] = "billing period has not ended"
		default:
			eligible = append(eligible, eligibleRow{index: i, terms: terms})
		}
	}

	pushed := make(map[string]bool)
	for _, row := range eligible {
		pushed[row.terms.Network] = true
	}

	reported := make(map[string]bool)
	for _, n := range networks {
		n = strings.TrimSpace(n)
		if n == "" || pushed[n] || reported[n] {
			continue
		}
		reported[n] = true
		reason := reasons[n]
		if !seen[n] {
			reason = "network not found"
		}
		result.Skipped = append(result.Skipped, SkippedNetwork{Network: n, Reason: reason})
	}

	if len(eligible) == 0 {
		return result, nil
	}

	current := make([]models.NetworkTerms, len(eligible))
	for i, row := range eligible {
		current[i] = row.terms
	}
	next := RecomputeAfterPush(current, pushed)

	done := make(map[string]bool)
	for i, row := range eligible {
		pending := pendingFromTerms(row.terms)
		log := e.log.With().
			Str("network", pending.Network).
			Str("amount", pending.Amount.String()).
			Str("period_end", pending.PeriodEnd).
			Logger()

		jctx, cancel := e.callContext(ctx)
		id, err := e.journal.Begin(jctx, op, pending.AsInvoice().Key())
		cancel()
		if err != nil {
			return result, storeUnavailable(op, err, "could not record push in journal")
		}

		if err := e.call(ctx, func(ctx context.Context) error {
			return e.store.AppendRows(ctx, store.ToBeInvoiced, [][]interface{}{pending.Row()})
		}); err != nil {
			if appendMayHaveLanded(err) {
				return result, storeUnavailable(op, err, pushFailureDetails(result.UpdatedNetworks, pending.Network, false)+
					fmt.Sprintf("; the append did not finish, check %s for its row", store.ToBeInvoiced.Name))
			}
			e.abort(ctx, id)
			return result, storeUnavailable(op, err, pushFailureDetails(result.UpdatedNetworks, pending.Network, false))
		}

		if err := e.call(ctx, func(ctx context.Context) error {
			return e.store.UpdateCells(ctx, store.NetworkTerms, row.index, 4, next[i].PeriodCells())
		}); err != nil {
			return result, storeUnavailable(op, err, pushFailureDetails(result.UpdatedNetworks, pending.Network, true))
		}

		jctx, cancel = e.callContext(ctx)
		if err := e.journal.Complete(jctx, id); err != nil {
			log.Warn().Err(err).Str("journal_id", id).Msg("failed to complete journal entry")
		}
		cancel()

		if !done[pending.Network] {
			done[pending.Network] = true
			result.UpdatedNetworks = append(result.UpdatedNetworks, pending.Network)
		}
		log.Info().Str("next_period_end", next[i].PeriodEnd).Msg("pushed to be invoiced")
	}

	return result, nil
}

// pendingFromTerms builds the To Be Invoiced entry for a closed period.
func pendingFromTerms(t models.NetworkTerms) models.PendingInvoice {
	label := t.PeriodStart + " - " + t.PeriodEnd
	end, endErr := models.ParseDate(t.PeriodEnd)
	start, startErr := models.ParseDate(t.PeriodStart)
	if endErr == nil {
		if startErr != nil {
			days := t.PayPeriod
			if days < 1 {
				days = 1
			}
			start = end.AddDate(0, 0, 1-days)
		}
		label = models.PeriodLabel(start, end)
	}

	return models.PendingInvoice{
		Network:     t.Network,
		PeriodLabel: label,
		PeriodStart: t.PeriodStart,
		PeriodEnd:   t.PeriodEnd,
		Amount:      t.RunningTotal,
		DashAmount:  t.RunningTotal,
		Status:      models.PendingStatus,
	}
}

func pushFailureDetails(updated []string, network string, appended bool) string {
	var b strings.Builder
	if len(updated) > 0 {
		fmt.Fprintf(&b, "pushed %s before the failure; ", strings.Join(updated, ", "))
	}
	if appended {
		fmt.Fprintf(&b, "%s was added to %s but its network terms were not reset", network, store.ToBeInvoiced.Name)
	} else {
		fmt.Fprintf(&b, "%s was not pushed", network)
	}
	return b.String()
}

// UpdateDashAmount overwrites the dash amount of the To Be Invoiced row
// matched by network and period end.
func (e *Engine) UpdateDashAmount(ctx context.Context, network, periodEnd string, dashAmount decimal.Decimal) error {
	const op = ActionUpdateDashAmount

	e.mu.Lock()
	defer e.mu.Unlock()

	rows, err := e.rows(ctx, op, store.ToBeInvoiced)
	if err != nil {
		return err
	}

	index := -1
	for i, row := range rows {
		if models.GetString(row, 0) == network && models.GetString(row, 3) == periodEnd {
			index = i
			break
		}
	}
	if index < 0 {
		return notFound(op, fmt.Sprintf("no %s row for %s ending %s", store.ToBeInvoiced.Name, network, periodEnd))
	}

	if err := e.call(ctx, func(ctx context.Context) error {
		return e.store.UpdateCells(ctx, store.ToBeInvoiced, index, 5, []interface{}{dashAmount.String()})
	}); err != nil {
		return storeUnavailable(op, err, "update of dash amount failed")
	}

	e.log.Info().
		Str("network", network).
		Str("period_end", periodEnd).
		Str("dash_amount", dashAmount.String()).
		Msg("dash amount updated")
	return nil
}
