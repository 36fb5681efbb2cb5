package helpers

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"strconv"
	"strings"
)

// FormatAmount prints a price the way the pricing service reported it, without grouping
// or rounding, so 5200000 stays 5200000.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPriceINR groups thousands and picks decimals by magnitude.
func FormatPriceINR(price float64) string {
	decimals := 6

	if price >= 1000 {
		decimals = 0
	} else if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("%.*f", decimals, price)
}

// FormatCompact renders large amounts as e.g. "1.23 T".
func FormatCompact(v float64) string {
	value, prefix := humanize.ComputeSI(v)
	switch prefix {
	case "k":
		prefix = "K"
	case "G":
		prefix = "B"
	}
	s := humanize.FtoaWithDigits(value, 2)
	if prefix == "" {
		return s
	}
	return s + " " + prefix
}

func FormatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		s = "+" + s
	}
	return s + "%"
}

// Capitalize upper-cases the first letter of each dash separated word of an asset id.
func Capitalize(asset string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(asset, "-", " "))
}
