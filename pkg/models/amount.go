package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a currency cell such as "$1,234.56" to a decimal.
// Empty, missing and unparseable values yield zero rather than an error, which
// is how the sheet's consumers have always treated them.
func ParseAmount(value interface{}) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return parseAmountString(v)
	default:
		return parseAmountString(fmt.Sprintf("%v", v))
	}
}

func parseAmountString(s string) decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleanAmount(s))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ParseAmountStrict is ParseAmount for caller input: a string that is not a
// number after removing currency notation is an error instead of zero.
func ParseAmountStrict(value interface{}) (decimal.Decimal, error) {
	s, ok := value.(string)
	if !ok {
		return ParseAmount(value), nil
	}
	amount, err := decimal.NewFromString(cleanAmount(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

// cleanAmount removes currency symbols and thousands separators.
func cleanAmount(s string) string {
	return strings.NewReplacer("$", "", ",", "", " ", "", "USD", "").Replace(strings.TrimSpace(s))
}

// FormatCurrency renders an amount in US dollar notation, e.g. "$1,234.56".
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}
