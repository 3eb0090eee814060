// Package formula validates the Formula value of fragment definitions.
//
// A formula is a signed sum of terms. A term is a reserved token
// ($PRECURSOR, $CHAIN, $ALKYLCHAIN, $ALKENYLCHAIN), the name of a fragment
// declared earlier in the same file, or a run of element groups such as
// "H2O" or "P O3". The validator only checks the composition; computing
// masses is the job of the identification engine.
package formula

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"lipidhq/fragrules/pkg/rules/ast"
)

// Lookup is the read-only view of the fragments declared so far.
// ast.FragmentView implements it.
type Lookup interface {
	Lookup(name string) (ast.FragmentRule, bool)
	Names() []string
}

// Result describes a valid formula.
type Result struct {
	// ChainType is the chain the formula is built on, or ast.ChainNone.
	ChainType ast.ChainType
	// ChainSource is the token or fragment name the chain type comes from.
	ChainSource string
	// References lists the fragment names used, in order of appearance.
	References []string
	// Precursor is set when $PRECURSOR occurs.
	Precursor bool
	// Elements sums the signed element counts written literally.
	Elements map[string]int
}

// elements is the table of accepted element symbols. D is deuterium.
var elements = map[string]bool{
	"H": true, "D": true, "B": true, "C": true, "N": true, "O": true, "F": true,
	"P": true, "S": true, "K": true, "I": true,
	"Li": true, "Na": true, "Mg": true, "Al": true, "Si": true, "Cl": true,
	"Ca": true, "Mn": true, "Fe": true, "Co": true, "Ni": true, "Cu": true,
	"Zn": true, "Se": true, "Br": true, "Rb": true, "Ag": true, "Cs": true,
}

var reserved = []string{ast.TokenPrecursor, ast.TokenChain, ast.TokenAlkylChain, ast.TokenAlkenylChain}

// Validator checks formulas against the fragments visible at the time of the call.
type Validator struct{}

// NewValidator creates a formula validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks formula. Only fragments present in known may be referenced,
// so a formula cannot point at a fragment declared further down the file.
func (v *Validator) Validate(formula string, known Lookup) (Result, error) {
	res := Result{Elements: make(map[string]int)}
	names := sortedByLength(known)

	s := formula
	sign := 1
	pendingSign := false
	terms := 0
	chainSources := 0

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
			continue

		case c == '+' || c == '-':
			if pendingSign {
				return Result{}, fmt.Errorf("formula %q has two signs in a row at position %d", formula, i+1)
			}
			pendingSign = true
			sign = 1
			if c == '-' {
				sign = -1
			}
			i++
			continue

		case c == '$':
			j := i + 1
			for j < len(s) && unicode.IsUpper(rune(s[j])) {
				j++
			}
			token := s[i:j]
			if !isReserved(token) {
				return Result{}, fmt.Errorf("formula %q uses unknown token %q; valid tokens are %s",
					formula, token, strings.Join(reserved, ", "))
			}
			if token == ast.TokenPrecursor {
				res.Precursor = true
			} else {
				chainType, _ := ast.ChainTypeFromToken(token)
				res.ChainType = chainType
				res.ChainSource = token
				chainSources++
			}
			i = j

		default:
			if name := matchName(s[i:], names); name != "" {
				ref, _ := known.Lookup(name)
				res.References = append(res.References, name)
				if ref.ChainType != ast.ChainNone {
					res.ChainType = ref.ChainType
					res.ChainSource = name
					chainSources++
				}
				i += len(name)
				break
			}
			symbol, count, n, err := elementGroup(s[i:])
			if err != nil {
				return Result{}, fmt.Errorf("formula %q: %v", formula, err)
			}
			res.Elements[symbol] += sign * count
			i += n
		}

		pendingSign = false
		terms++
	}

	if pendingSign {
		return Result{}, fmt.Errorf("formula %q ends with a sign", formula)
	}
	if terms == 0 {
		return Result{}, fmt.Errorf("formula is empty")
	}
	if chainSources > 1 {
		return Result{}, fmt.Errorf("formula %q combines more than one chain", formula)
	}
	return res, nil
}

// elementGroup reads "Symbol[count]" at the start of s.
func elementGroup(s string) (symbol string, count int, consumed int, err error) {
	if !unicode.IsUpper(rune(s[0])) {
		return "", 0, 0, fmt.Errorf("unexpected character %q; expected an element, a token or a fragment name", s[0])
	}
	symbol = s[:1]
	if len(s) > 1 && unicode.IsLower(rune(s[1])) && elements[s[:2]] {
		symbol = s[:2]
	}
	if !elements[symbol] {
		return "", 0, 0, fmt.Errorf("unknown element or fragment %q", leadingWord(s))
	}

	i := len(symbol)
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return symbol, 1, i, nil
	}
	for _, d := range s[i:j] {
		count = count*10 + int(d-'0')
	}
	if count == 0 {
		return "", 0, 0, fmt.Errorf("element %s has a zero count", symbol)
	}
	return symbol, count, j, nil
}

func leadingWord(s string) string {
	end := strings.IndexAny(s, " \t+-")
	if end < 0 {
		return s
	}
	return s[:end]
}

func isReserved(token string) bool {
	for _, r := range reserved {
		if r == token {
			return true
		}
	}
	return false
}

func sortedByLength(known Lookup) []string {
	if known == nil {
		return nil
	}
	names := known.Names()
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return names
}

func matchName(s string, longestFirst []string) string {
	for _, name := range longestFirst {
		if name != "" && strings.HasPrefix(s, name) {
			return name
		}
	}
	return ""
}
