package quote

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrInvalidFormat is returned when a price string can't be read as a number
var ErrInvalidFormat = errors.New("invalid quote format")

// currencyPrefixes are stripped before parsing, longest first
var currencyPrefixes = []string{"US$", "AR$", "U$S", "$"}

// Normalize converts an Argentine-formatted price ("$1.234,56") into a float,
// rounded to 2 decimal places
func Normalize(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	for _, prefix := range currencyPrefixes {
		s = strings.ReplaceAll(s, prefix, "")
	}

	// Drop any whitespace, including the NBSP some sites put after the symbol
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)

	if s == "" {
		return 0, fmt.Errorf("%w: empty value %q", ErrInvalidFormat, raw)
	}

	// "1.234,56" -> "1234.56"
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unable to parse %q", ErrInvalidFormat, raw)
	}

	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: non-positive value %q", ErrInvalidFormat, raw)
	}

	return d.Round(2).InexactFloat64(), nil
}
