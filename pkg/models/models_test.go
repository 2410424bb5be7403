package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"formatted", "$1,234.56", "1234.56"},
		{"plain", "500", "500"},
		{"padded", "  $ 42.10 ", "42.1"},
		{"negative", "-$15.00", "-15"},
		{"empty", "", "0"},
		{"nil", nil, "0"},
		{"garbage", "abc", "0"},
		{"float", 12.5, "12.5"},
		{"int", 7, "7"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := decimal.RequireFromString(tc.want)
			got := ParseAmount(tc.input)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestParseAmountStrict(t *testing.T) {
	got, err := ParseAmountStrict("$1,234.56")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(got))

	got, err = ParseAmountStrict(500.0)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(got))

	for _, bad := range []string{"abc", "", "$"} {
		_, err := ParseAmountStrict(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatCurrency(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$999.50", FormatCurrency(decimal.RequireFromString("999.5")))
	assert.Equal(t, "$1,000,000.00", FormatCurrency(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-$12.00", FormatCurrency(decimal.NewFromInt(-12)))
}

func TestFormatDateTolerance(t *testing.T) {
	assert.Equal(t, "06/01/2024", FormatDate("2024-01-06"))
	assert.Equal(t, "06/01/2024", FormatDate("06/01/2024"))
	assert.Equal(t, "01/06/2024", FormatDate("01/06/2024"))
	assert.Equal(t, "13/01/2024", FormatDate("01/13/2024"))
	assert.Equal(t, "06/01/2024", FormatDate("2024-01-06T10:00:00Z"))

	assert.Equal(t, NoDate, FormatDate("  "))
	assert.Equal(t, InvalidDate, FormatDate("next tuesday"))
}

func TestStatusFor(t *testing.T) {
	now := time.Date(2024, 2, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, StatusOverdue, StatusFor("2024-02-09", now))
	assert.Equal(t, StatusDueSoon, StatusFor("2024-02-10", now))
	assert.Equal(t, StatusDueSoon, StatusFor("17/02/2024", now))
	assert.Equal(t, StatusNotDue, StatusFor("2024-02-18", now))
	assert.Equal(t, StatusUnknown, StatusFor("soon", now))
	assert.True(t, IsOverdue("2024-01-31", now))
}

func TestRowCodecs(t *testing.T) {
	inv := PaidInvoiceFromRow([]interface{}{"AcmeNet", "$500.00", "2024-02-01", "2024-02-05", "$500"})
	assert.Equal(t, "AcmeNet", inv.Network)
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "2024-02-05", inv.DatePaid)
	require.NotNil(t, inv.AmountPaid)
	assert.True(t, inv.IsPaid())

	short := PaidInvoiceFromRow([]interface{}{"AcmeNet", "500"})
	assert.Equal(t, "", short.DueDate)
	assert.Nil(t, short.AmountPaid)
	assert.False(t, short.IsPaid())

	terms := NetworkTermsFromRow([]interface{}{"AcmeNet", "Offer A", "weekly", "30", "2023-12-31", "2024-01-06", "2024-02-05", "$1,200.00"})
	assert.Equal(t, 7, terms.PayPeriod)
	assert.Equal(t, 30, terms.NetTerms)
	assert.True(t, terms.HasUnbilled())
	assert.Equal(t, []interface{}{"2023-12-31", "2024-01-06", "2024-02-05", "1200"}, terms.PeriodCells())

	pending := PendingInvoice{Network: "AcmeNet", PeriodEnd: "2024-01-06", Amount: decimal.NewFromInt(10)}
	assert.Equal(t, Key{Network: "AcmeNet", Amount: decimal.NewFromInt(10), DueDate: "2024-01-06"}, pending.AsInvoice().Key())
}

func TestInvoiceJSONAcceptsNumbersAndStrings(t *testing.T) {
	var inv Invoice
	require.NoError(t, json.Unmarshal([]byte(`{"network":"AcmeNet","amount":500,"dueDate":"2024-02-01","amountPaid":"500"}`), &inv))
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, inv.AmountPaid)
	assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(500)))
}

func TestPeriodLabel(t *testing.T) {
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "07 Jan - 13 Jan 2024", PeriodLabel(start, end))
}
