package settings

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

const permille = "‰"

// ParseCount parses a non-negative integer.
func ParseCount(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer; found %q", key, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative; found %d", key, n)
	}
	return n, nil
}

// ParsePattern compiles a name-derivation pattern. The pattern must contain a
// capture group, so a literal "(" and ")" are both required.
func ParsePattern(key, value string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid regular expression: %v", key, err)
	}
	if !strings.Contains(value, "(") || !strings.Contains(value, ")") {
		return nil, fmt.Errorf("%s must contain a capture group \"(...)\"; found %q", key, value)
	}
	return re, nil
}

// ParseFraction parses a fraction, percent ("5%") or per-mille ("5‰") literal
// and checks 0 <= value < 1. The value is computed exactly before conversion,
// so "99.9%" yields 0.999.
func ParseFraction(key, value string) (float64, error) {
	text := strings.TrimSpace(value)
	suffix := ""
	divisor := int64(1)
	switch {
	case strings.HasSuffix(text, "%"):
		suffix, divisor = "%", 100
	case strings.HasSuffix(text, permille):
		suffix, divisor = permille, 1000
	}
	number := strings.TrimSpace(strings.TrimSuffix(text, suffix))
	r, ok := new(big.Rat).SetString(number)
	if !ok {
		return 0, fmt.Errorf("%s must be a fraction, percent or per-mille value; found %q", key, value)
	}
	r.Quo(r, big.NewRat(divisor, 1))
	if r.Sign() < 0 || r.Cmp(big.NewRat(1, 1)) >= 0 {
		return 0, fmt.Errorf("%s must be >= 0 and < 1; found %s%s", key, number, suffix)
	}
	f, _ := r.Float64()
	return f, nil
}

// ParseFlag reads "true"/"yes" as true and anything else as false.
func ParseFlag(value string) bool {
	v := strings.TrimSpace(value)
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// ParseFloat parses a finite floating point value.
func ParseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number; found %q", key, value)
	}
	return f, nil
}

// ParseOrder parses the identification order literal.
func ParseOrder(key, value string) (IdentificationOrder, error) {
	o, ok := ParseIdentificationOrder(value)
	if !ok {
		return OrderMS1First, fmt.Errorf("%s must be one of %s, %s, %s; found %q", key,
			OrderMS1First, OrderMSnFirst, OrderMSnOnly, value)
	}
	return o, nil
}
