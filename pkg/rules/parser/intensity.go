package parser

import (
	"fmt"
	"strings"
	"unicode"

	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/rules/expr"
	"lipidhq/fragrules/pkg/rules/settings"
)

// KeyEquation starts every intensity line.
const KeyEquation = "Equation"

func (c *compilation) intensityLine(line string) error {
	key, rest, ok := strings.Cut(line, "=")
	if !ok || strings.TrimSpace(key) != KeyEquation {
		e := c.fail("intensity entry %q must start with %s=", line, KeyEquation)
		if ok {
			e.WithSuggestion(rulesErrors.SuggestName(strings.TrimSpace(key), []string{KeyEquation}))
		}
		return e
	}

	equation, mandatoryText := splitMandatory(rest)
	if equation == "" {
		return c.fail("%s has no equation", KeyEquation)
	}
	mandatory, _, err := parseMandatory(mandatoryText, false)
	if err != nil {
		return c.wrap(err)
	}

	section := c.state.section
	opts := expr.Options{
		Section: section,
		Compat:  c.p.compat,
	}
	view := c.builder.Fragments()
	if section == ast.SectionHead {
		opts.Fragments = view.SectionNames(ast.SectionHead)
	} else {
		opts.Fragments = view.Names()
	}
	if section == ast.SectionPosition {
		table := c.builder.General()
		if !table.Has(settings.KeyAmountOfChains) {
			return c.fail("%s equations need %s to be declared in %s first",
				ast.SectionPosition.Header(), settings.KeyAmountOfChains, ast.SectionGeneral.Header())
		}
		opts.MaxPositions = table.MaxChainPositions()
	}

	compiled, err := expr.NewCompiler(opts).Compile(equation)
	if err != nil {
		return c.fail("invalid equation %q: %v", equation, err).Wrap(err)
	}

	rule := ast.IntensityRule{
		Section:        section,
		SourceEquation: equation,
		Bigger:         compiled.Bigger,
		Smaller:        compiled.Smaller,
		Mandatory:      mandatory,
		Location:       c.loc(),
	}
	if err := c.builder.AddIntensity(rule); err != nil {
		return c.wrap(err)
	}
	return nil
}

// splitMandatory separates the equation from a trailing "mandatory=" token.
func splitMandatory(rest string) (equation, mandatory string) {
	marker := KeyMandatory + "="
	idx := strings.LastIndex(rest, marker)
	if idx < 0 || (idx > 0 && !unicode.IsSpace(rune(rest[idx-1]))) {
		return strings.TrimSpace(rest), ""
	}
	return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+len(marker):])
}

// parseMandatory reads the mandatory literal. "other" is accepted only when
// allowOther is set and yields other == true. An empty value means false.
func parseMandatory(value string, allowOther bool) (mandatory, other bool, err error) {
	switch {
	case value == "":
		return false, false, nil
	case strings.EqualFold(value, "true"), strings.EqualFold(value, "yes"):
		return true, false, nil
	case strings.EqualFold(value, "false"), strings.EqualFold(value, "no"):
		return false, false, nil
	case allowOther && strings.EqualFold(value, "other"):
		return false, true, nil
	}
	if allowOther {
		return false, false, fmt.Errorf("%s=%q must be one of true, false, yes, no or other", KeyMandatory, value)
	}
	return false, false, fmt.Errorf("%s=%q must be one of true, false, yes or no", KeyMandatory, value)
}
