package expr

import (
	"errors"
	"fmt"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
)

// Options configures a Compiler for one section of one document.
type Options struct {
	// Section decides whether position specifiers are legal.
	Section ast.Section

	// Fragments are the names a side may reference.
	Fragments []string

	// MaxPositions bounds position specifiers in [POSITION].
	MaxPositions int

	// Compat allows fragment names that contain parentheses.
	Compat bool
}

// Compiled is a compiled intensity equation.
type Compiled struct {
	Bigger     ast.ComparisonExpression
	Smaller    ast.ComparisonExpression
	Comparator byte
}

// Compiler turns equation text into comparison expressions.
type Compiler struct {
	section   ast.Section
	maxPos    int
	names     []string
	protected []string
}

// NewCompiler prepares the name index for opts.
func NewCompiler(opts Options) *Compiler {
	c := &Compiler{
		section: opts.Section,
		names:   SortLongestFirst(opts.Fragments),
	}
	if opts.Section == ast.SectionPosition {
		c.maxPos = opts.MaxPositions
	}
	if opts.Compat {
		for _, n := range c.names {
			if strings.ContainsAny(n, "()") {
				c.protected = append(c.protected, n)
			}
		}
	}
	return c
}

// Compile splits equation at its comparator and compiles both sides.
func (c *Compiler) Compile(equation string) (Compiled, error) {
	left, right, op, err := SplitComparator(strings.TrimSpace(equation))
	if err != nil {
		return Compiled{}, err
	}
	biggerText, smallerText := BiggerSmaller(left, right, op)

	bigger, err := c.CompileSide(biggerText)
	if err != nil {
		return Compiled{}, err
	}
	smaller, err := c.CompileSide(smallerText)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{Bigger: bigger, Smaller: smaller, Comparator: op}, nil
}

// CompileSide compiles one side of an equation.
func (c *Compiler) CompileSide(side string) (ast.ComparisonExpression, error) {
	group, err := SplitBrackets(side, c.protected)
	if err != nil {
		return ast.ComparisonExpression{}, err
	}
	global := ast.One()
	if group.Grouped {
		global, err = ParseGlobalMultiplier(group.Prefix, group.Suffix)
		if err != nil {
			return ast.ComparisonExpression{}, err
		}
	}

	var terms []ast.FragmentTerm
	work := group.Inner
	for strings.TrimSpace(work) != "" {
		term, rest, err := ExtractTerm(work, c.names, c.maxPos)
		if errors.Is(err, errNoMatch) {
			if len(terms) == 0 {
				return ast.ComparisonExpression{}, fmt.Errorf("%q %w", strings.TrimSpace(side), ErrNoReference)
			}
			return ast.ComparisonExpression{}, fmt.Errorf("%w %q in %q", ErrRemainder, strings.TrimSpace(work), strings.TrimSpace(side))
		}
		if err != nil {
			return ast.ComparisonExpression{}, err
		}
		terms = append(terms, term)
		work = rest
	}
	if len(terms) == 0 {
		return ast.ComparisonExpression{}, fmt.Errorf("%q %w", strings.TrimSpace(side), ErrNoReference)
	}

	if err := checkPositions(terms); err != nil {
		return ast.ComparisonExpression{}, fmt.Errorf("%w in %q", err, strings.TrimSpace(side))
	}
	return ast.ComparisonExpression{Terms: terms, GlobalMultiplier: global}, nil
}

// checkPositions requires all position-qualified terms to agree.
func checkPositions(terms []ast.FragmentTerm) error {
	pos := 0
	for _, t := range terms {
		if t.Position == 0 || t.IsBasePeak() {
			continue
		}
		if pos == 0 {
			pos = t.Position
			continue
		}
		if t.Position != pos {
			return fmt.Errorf("%w: [%d] and [%d]", ErrMixedPositions, pos, t.Position)
		}
	}
	return nil
}
