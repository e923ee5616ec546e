package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a major-unit value in Brazilian currency notation,
// e.g. 1234.5 -> "R$ 1.234,50".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	s := d.StringFixed(2)
	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a percentage with two decimals and a comma
// separator, e.g. 3.456 -> "3,46%".
func FormatPercent(v float64) string {
	s := decimal.NewFromFloat(v).Round(2).StringFixed(2)
	return strings.Replace(s, ".", ",", 1) + "%"
}

// ToSaoPauloTime converts an instant to the B3 exchange timezone. Falls
// back to UTC when the timezone database is unavailable.
func ToSaoPauloTime(t time.Time) time.Time {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}
