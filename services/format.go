package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every displayed money amount.
const CurrencySymbol = "₹"

// billDateLayout is the day/month/year form used on every document.
const billDateLayout = "02/01/2006"

// FormatAmount renders v with exactly two decimals, rounding half away from
// zero. Non-finite values render as NaN, Infinity or -Infinity.
func FormatAmount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCurrency formats an amount as rupees with western thousands grouping
// and two decimals, e.g. ₹1,234.56. Negative amounts render as -₹1,234.56.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return CurrencySymbol + FormatAmount(amount)
	}

	raw := FormatAmount(amount)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	intPart, decPart, _ := strings.Cut(raw, ".")
	result := CurrencySymbol + applyThousandsGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts a comma before every group of three digits,
// counted from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatQuantity returns the shortest decimal form of a quantity: 10, 2.5.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent returns the shortest decimal form of a percentage without the
// sign, e.g. 4 or 2.5.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBillDate renders the bill date as dd/mm/yyyy.
func FormatBillDate(t time.Time) string {
	return t.Format(billDateLayout)
}
