package fullreport

import (
	"math"
	"strconv"
	"strings"
)

// roundHalfEven rounds v to the given number of decimal places, ties to even.
func roundHalfEven(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.RoundToEven(v)
	}
	factor := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*factor) / factor
}

// FormatLocaleInt formats n with a dot as thousands separator: 1234567 => "1.234.567".
func FormatLocaleInt(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	s = groupThousands(s)
	if neg {
		return "-" + s
	}
	return s
}

// FormatLocaleFloat formats v with a dot as thousands separator and a comma as
// decimal separator, always printing the requested decimals:
// 1234.5 (2 decimals) => "1.234,50".
func FormatLocaleFloat(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if fracPart != "" {
		out += "," + fracPart
	}
	if v < 0 && strings.Trim(s, "0.") != "" {
		out = "-" + out
	}
	return out
}

// FormatCurrency renders an amount the way the dashboard KPI cards do: "R$ 1.234,56".
func FormatCurrency(v float64) string {
	return "R$ " + FormatLocaleFloat(v, 2)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
