package expr

import (
	"fmt"
	"math/big"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
)

// ParseNumber parses the positive decimal number of a multiplier clause.
func ParseNumber(text string) (*big.Rat, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil, fmt.Errorf("%w: missing number", ErrInvalidMultiplier)
	}
	dots := 0
	for _, c := range t {
		switch {
		case c == '.':
			dots++
		case c < '0' || c > '9':
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidMultiplier, t)
		}
	}
	if dots > 1 || t == "." {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidMultiplier, t)
	}
	r, ok := new(big.Rat).SetString(t)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidMultiplier, t)
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q must be greater than zero", ErrInvalidMultiplier, t)
	}
	return r, nil
}

// countMarkers returns the number of '*' and '/' characters.
func countMarkers(s string) int {
	return strings.Count(s, "*") + strings.Count(s, "/")
}

// ParsePreMultiplier parses a clause written before a fragment, "<number>*".
// An empty clause yields ok == false.
func ParsePreMultiplier(clause string) (m ast.Multiplier, ok bool, err error) {
	c := strings.TrimSpace(clause)
	if c == "" {
		return ast.One(), false, nil
	}
	if strings.ContainsAny(c, "[]") {
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q; a position must follow the fragment name", ErrInvalidPosition, c)
	}
	switch n := countMarkers(c); {
	case n == 0:
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q needs '*' before the fragment", ErrInvalidMultiplier, c)
	case n > 1:
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q", ErrMultipleMultipliers, c)
	}
	if !strings.HasSuffix(c, "*") {
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q; division must follow the fragment", ErrInvalidMultiplier, c)
	}
	r, err := ParseNumber(strings.TrimSuffix(c, "*"))
	if err != nil {
		return ast.Multiplier{}, false, err
	}
	return toMultiplier(r, c)
}

// ParsePostMultiplier parses "*<number>" or "/<number>" written after a
// fragment. Division is stored as the reciprocal.
func ParsePostMultiplier(clause string) (m ast.Multiplier, ok bool, err error) {
	c := strings.TrimSpace(clause)
	if c == "" {
		return ast.One(), false, nil
	}
	if countMarkers(c) > 1 {
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q", ErrMultipleMultipliers, c)
	}
	marker := c[0]
	if marker != '*' && marker != '/' {
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q", ErrInvalidMultiplier, c)
	}
	r, err := ParseNumber(c[1:])
	if err != nil {
		return ast.Multiplier{}, false, err
	}
	if marker == '/' {
		r.Inv(r)
	}
	return toMultiplier(r, c)
}

// ParseGlobalMultiplier computes the factor of a bracket group from the text
// before and after it. Only one of the two may carry a factor.
func ParseGlobalMultiplier(prefix, suffix string) (ast.Multiplier, error) {
	p, s := strings.TrimSpace(prefix), strings.TrimSpace(suffix)
	if p != "" && s != "" {
		return ast.Multiplier{}, fmt.Errorf("%w the bracket group: %q and %q", ErrAmbiguousMultiplier, p, s)
	}
	if p != "" {
		m, _, err := ParsePreMultiplier(p)
		return m, err
	}
	m, _, err := ParsePostMultiplier(s)
	return m, err
}

func toMultiplier(r *big.Rat, text string) (ast.Multiplier, bool, error) {
	m, ok := ast.MultiplierFromRat(r, text)
	if !ok {
		return ast.Multiplier{}, false, fmt.Errorf("%w: %q is out of range", ErrInvalidMultiplier, text)
	}
	return m, true, nil
}
