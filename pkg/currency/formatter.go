package currency

import (
	"fmt"
	"math"
)

// FormatRUB renders whole roubles with space separated thousands, e.g. "RUB 12 500"
func FormatRUB(amount float64) string {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	intStr := fmt.Sprintf("%.0f", rounded)
	result := "RUB " + addThousandsSeparator(intStr, " ")
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	out := make([]byte, 0, n+(n-1)/3*len(sep))
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, sep...)
		}
		out = append(out, s[i])
	}
	return string(out)
}
