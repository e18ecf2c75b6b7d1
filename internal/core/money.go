// Package core holds the domain types and the derived-computation logic:
// money handling, financial aggregation and goal pace projection.
//
// This file contains parsing and formatting of monetary amounts. Amounts
// are stored as integer cents; decimal strings only appear at the API
// boundary.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer cents. Negative values are legal for
// derived quantities (free balance may signal over-commitment); stored
// transaction values are always non-negative.
type Money struct {
	Cents int64
}

// ParseDecimal converts a decimal string to Money with half-up rounding
// on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. Zero is allowed; signed input is not, since
// the sign of a ledger entry comes from its kind, never from the value.
//
// Examples:
//
//	ParseDecimal("12.34")  -> 1234 cents
//	ParseDecimal("12,344") -> 1234 cents (rounds down)
//	ParseDecimal("12.345") -> 1235 cents (rounds up)
func ParseDecimal(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	// Take first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// Decimal renders the amount as a plain decimal string ("1234.56",
// "-0.05") for JSON payloads.
func (m Money) Decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}
