package expr

import (
	"fmt"
	"strings"
)

// Group is the result of bracket detection on one side.
type Group struct {
	Prefix  string // text before '('
	Inner   string // text between the outer matching pair
	Suffix  string // text after the matching ')'
	Grouped bool   // false when the side has no true bracket pair
}

// SplitBrackets detects a true grouping bracket. Parentheses that belong to a
// protected fragment name (compatibility mode allows them in names) are not
// grouping brackets.
func SplitBrackets(side string, protected []string) (Group, error) {
	masked := maskNames(side, protected)
	open := strings.IndexByte(masked, '(')
	anyClose := strings.IndexByte(masked, ')')
	if open < 0 && anyClose < 0 {
		return Group{Inner: side}, nil
	}
	if open < 0 || anyClose < 0 || anyClose < open {
		return Group{}, fmt.Errorf("%w in %q", ErrUnbalancedBrackets, side)
	}

	depth, closeIdx := 0, -1
	for i := open; i < len(masked) && closeIdx < 0; i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closeIdx = i
			}
		}
	}
	if closeIdx < 0 {
		return Group{}, fmt.Errorf("%w in %q", ErrUnbalancedBrackets, side)
	}
	if strings.ContainsAny(masked[open+1:closeIdx], "()") {
		return Group{}, fmt.Errorf("%w: %q", ErrNestedBrackets, side)
	}
	if strings.ContainsAny(masked[closeIdx+1:], "()") || strings.ContainsAny(masked[:open], ")") {
		return Group{}, fmt.Errorf("%w: %q has more than one bracket group", ErrUnbalancedBrackets, side)
	}

	return Group{
		Prefix:  side[:open],
		Inner:   side[open+1 : closeIdx],
		Suffix:  side[closeIdx+1:],
		Grouped: true,
	}, nil
}

// maskNames blanks out every occurrence of the protected names so their
// parentheses are invisible to bracket matching. Byte offsets are preserved.
func maskNames(s string, protected []string) string {
	if len(protected) == 0 {
		return s
	}
	b := []byte(s)
	for _, name := range protected {
		if name == "" {
			continue
		}
		for start := 0; ; {
			i := strings.Index(s[start:], name)
			if i < 0 {
				break
			}
			i += start
			for j := i; j < i+len(name); j++ {
				b[j] = '_'
			}
			start = i + len(name)
		}
	}
	return string(b)
}
