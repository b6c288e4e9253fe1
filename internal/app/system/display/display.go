// Package display formats API values for the HTML pages and the CLI.
package display

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// CurrencySymbol prefixes every amount.
const CurrencySymbol = "$"

// Money renders d with thousands separators and two decimals, e.g.
// "$1,500.50". The integer part is formatted from the decimal itself so no
// float rounding is involved.
func Money(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	intPart := decimal.RequireFromString(whole)
	grouped := whole
	if intPart.LessThan(decimal.NewFromInt(1 << 62)) {
		grouped = humanize.Comma(intPart.IntPart())
	}

	s := CurrencySymbol + grouped + "." + frac
	if neg {
		return "-" + s
	}
	return s
}

// Percent renders a rate as "7.5%".
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}

// Date renders a timestamp as "Jan 2, 2006", or "—" when unset.
func Date(ts models.Timestamp) string {
	if ts.IsZero() {
		return "—"
	}
	return ts.DateLabel()
}

// Ago renders a timestamp relative to now, e.g. "3 days ago".
func Ago(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.RelTime(ts.Time, time.Now(), "ago", "from now")
}

// Count renders n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
