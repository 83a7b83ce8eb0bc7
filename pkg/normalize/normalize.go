// Package normalize converts raw localized price and weight strings scraped
// from retailer pages into canonical decimal values and product-name keys.
//
// Every function is total: malformed input yields a zero value and false
// (or an empty string), never a panic or an error. Scraped HTML is not
// trusted to be well formed.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	// priceRun matches the first run of digits with optional group or
	// decimal separators, capturing a minus sign directly before it.
	priceRun = regexp.MustCompile(`([-−]?)(\d(?:[\d.,]*\d)?)`)

	// weightPattern matches a quantity followed by a mass or volume unit.
	// Longer units come first so "кг" is not read as "г".
	weightPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(кг|мл|г|л|kg|ml|g|l)`)

	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// CleanPrice parses a localized price such as "1 234,56 грн" into a
// positive decimal rounded to two fraction digits. Spaces (including
// non-breaking ones) are group separators, a comma is the decimal
// separator, and when more than one dot remains only the last one is
// treated as decimal. Unparseable or non-positive input, including a minus
// sign directly before the digits, returns false.
func CleanPrice(raw string) (decimal.Decimal, bool) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	m := priceRun.FindStringSubmatch(compact)
	if m == nil || m[1] != "" {
		return decimal.Zero, false
	}
	run := m[2]

	run = strings.ReplaceAll(run, ",", ".")
	if parts := strings.Split(run, "."); len(parts) > 2 {
		last := len(parts) - 1
		run = strings.Join(parts[:last], "") + "." + parts[last]
	}

	price, err := decimal.NewFromString(run)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}

	price = price.Round(2)
	if !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}

// NormalizeProductName returns the deduplication key for a product title:
// lower-cased, without weight/volume suffixes ("1кг", "500 g", "0.5л"),
// without punctuation, with whitespace collapsed. It is idempotent.
func NormalizeProductName(raw string) string {
	s := strings.ToLower(raw)

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			return r
		case unicode.IsMark(r):
			return r
		default:
			return -1
		}
	}, s)

	for {
		stripped := stripWeights(s)
		if stripped == s {
			break
		}
		s = stripped
	}

	return strings.Join(strings.Fields(s), " ")
}

// stripWeights replaces every weight token that stands on its own (not
// glued to a neighbouring letter or digit) with a space.
func stripWeights(s string) string {
	matches := weightPattern.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	prev := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !isBoundary(lastRune(s[:start])) || !isBoundary(firstRune(s[end:])) {
			continue
		}
		b.WriteString(s[prev:start])
		b.WriteByte(' ')
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}

func isBoundary(r rune) bool {
	return r == 0 || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == ',')
}

func firstRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// ExtractWeight returns the first weight or volume expression in a product
// name ("Гречка Хуторок 800г" -> "800г"), or "" when there is none.
func ExtractWeight(name string) string {
	return weightPattern.FindString(name)
}

// CalculateUnitPrice returns the price per 100 g (or 100 ml) for a price and
// a weight expression such as "1 kg" or "0,5 л". Kilograms and litres are
// scaled by 1000. It returns false when the weight cannot be parsed or
// resolves to zero.
func CalculateUnitPrice(price decimal.Decimal, weightText string) (decimal.Decimal, bool) {
	m := weightPattern.FindStringSubmatch(strings.ToLower(weightText))
	if m == nil {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
	if err != nil {
		return decimal.Zero, false
	}

	switch m[2] {
	case "кг", "kg", "л", "l":
		amount = amount.Mul(thousand)
	}
	if !amount.IsPositive() {
		return decimal.Zero, false
	}

	return price.Div(amount).Mul(hundred).Round(2), true
}
