package expr

import (
	"fmt"
	"strings"
)

// SplitComparator locates the comparator of an equation: the first '>' if
// there is one, otherwise the first '<'. It returns both sides unparsed.
func SplitComparator(equation string) (left, right string, op byte, err error) {
	op = '>'
	idx := strings.IndexByte(equation, '>')
	if idx < 0 {
		op = '<'
		idx = strings.IndexByte(equation, '<')
	}
	if idx < 0 {
		return "", "", 0, fmt.Errorf("%w: %q needs '>' or '<'", ErrNoComparator, equation)
	}
	if idx == 0 || idx == len(equation)-1 {
		return "", "", 0, fmt.Errorf("%w: %q", ErrComparatorPosition, equation)
	}

	left, right = equation[:idx], equation[idx+1:]
	if strings.ContainsAny(left, "<>") || strings.ContainsAny(right, "<>") {
		return "", "", 0, fmt.Errorf("%w: %q", ErrMultipleComparators, equation)
	}
	return left, right, op, nil
}

// BiggerSmaller orders the two sides so the first one denotes the larger
// quantity, whichever side of the comparator it was written on.
func BiggerSmaller(left, right string, op byte) (bigger, smaller string) {
	if op == '<' {
		return right, left
	}
	return left, right
}
