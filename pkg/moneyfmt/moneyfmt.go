// Package moneyfmt renders market numbers for display. All functions are
// pure; rounding is half-up via shopspring/decimal rather than %f so the
// output is deterministic across platforms.
package moneyfmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Price formats a price with tiered precision: sub-cent prices keep 8
// fraction digits, sub-dollar prices 4, everything else 2 with thousands
// grouping. No currency prefix; callers add one.
func Price(x float64) string {
	d := decimal.NewFromFloat(x)

	switch {
	case x < 0.01:
		return d.StringFixed(8)
	case x < 1:
		return d.StringFixed(4)
	default:
		return groupThousands(d.StringFixed(2))
	}
}

var magnitudeSteps = []struct {
	threshold float64
	divisor   int64
	suffix    string
}{
	{1e12, 1_000_000_000_000, "T"},
	{1e9, 1_000_000_000, "B"},
	{1e6, 1_000_000, "M"},
	{1e3, 1_000, "K"},
}

// Magnitude formats a large currency value with a scale suffix:
// $2.30T, $1.50B, $42.00M, $999.00. Always two decimals, always
// dollar-prefixed.
func Magnitude(x float64) string {
	d := decimal.NewFromFloat(x)

	for _, step := range magnitudeSteps {
		if x >= step.threshold {
			scaled := d.Div(decimal.NewFromInt(step.divisor))
			return "$" + scaled.StringFixed(2) + step.suffix
		}
	}
	return "$" + d.StringFixed(2)
}

// Percent formats a signed percentage change with two decimals, e.g.
// "+4.20%" or "-0.37%".
func Percent(x float64) string {
	return fmt.Sprintf("%+.2f%%", x)
}

// Timestamp parses an RFC3339 timestamp (the shape the market API emits)
// and renders it in the viewer's local time. Malformed input is an error,
// never a silently coerced value.
func Timestamp(s string) (string, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t.Local().Format("Jan 2, 2006 15:04:05"), nil
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string ("1234567.89" -> "1,234,567.89").
func groupThousands(s string) string {
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
