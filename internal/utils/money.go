package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatEuro renders an amount of euro cents as "1 234,50 €".
func FormatEuro(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s,%02d €", sign, formatThousand(cents/100), cents%100)
}

// ParseEuroToCents parses "1 234,50", "1234.50" or "1234" into euro cents.
func ParseEuroToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "€")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("invalid euro amount")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid euro amount: %q", s)
	}
	neg := strings.HasPrefix(whole, "-")
	cents := n * 100
	if hasFrac {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid euro amount: %q", s)
		}
		if neg {
			cents -= f
		} else {
			cents += f
		}
	}
	return cents, nil
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(' ')
		}
		out.WriteRune(c)
	}
	return out.String()
}
