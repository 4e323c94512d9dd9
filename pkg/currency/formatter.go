package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"IDR": "Rp ",
	"SGD": "S$",
	"AUD": "A$",
}

// zeroDecimalCurrencies are quoted without a fractional part.
var zeroDecimalCurrencies = map[string]bool{
	"IDR": true,
	"JPY": true,
}

// Format renders an amount as display text, e.g. "$1,250.00" or
// "Rp 1.250.000". Unknown currency codes fall back to "CODE amount".
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	places := int32(2)
	if zeroDecimalCurrencies[code] {
		places = 0
	}
	text := groupThousands(amount.StringFixed(places), code)

	symbol, ok := symbols[code]
	if !ok {
		if code == "" {
			return text
		}
		return code + " " + text
	}
	return symbol + text
}

// groupThousands inserts separators into the integer part. IDR uses
// dots, everything else commas.
func groupThousands(s, code string) string {
	sep := ","
	if code == "IDR" {
		sep = "."
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
