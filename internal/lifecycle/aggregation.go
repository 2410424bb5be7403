package lifecycle

import (
	"github.com/shopspring/decimal"

	"cashflow/pkg/models"
)

// RecomputeAfterPush zeroes the running total of every network in pushed and
// rolls its billing window forward by one pay period. Networks absent from
// pushed are returned unchanged. Rows whose period end does not parse keep
// their dates.
func RecomputeAfterPush(terms []models.NetworkTerms, pushed map[string]bool) []models.NetworkTerms {
	updated := make([]models.NetworkTerms, len(terms))
	for i, t := range terms {
		if pushed[t.Network] {
			t = AdvancePeriod(t)
		}
		updated[i] = t
	}
	return updated
}

// AdvancePeriod returns t with a zero running total and the next billing
// window: it starts the day after the current period end and spans payPeriod
// days. The invoice due date is the new period end plus netTerms days.
func AdvancePeriod(t models.NetworkTerms) models.NetworkTerms {
	t.RunningTotal = decimal.Zero

	end, err := models.ParseDate(t.PeriodEnd)
	if err != nil {
		return t
	}
	days := t.PayPeriod
	if days < 1 {
		days = 1
	}

	newStart := models.DateOnly(end).AddDate(0, 0, 1)
	newEnd := newStart.AddDate(0, 0, days-1)

	t.PeriodStart = newStart.Format(models.ISODate)
	t.PeriodEnd = newEnd.Format(models.ISODate)
	t.InvoiceDue = newEnd.AddDate(0, 0, t.NetTerms).Format(models.ISODate)
	return t
}
