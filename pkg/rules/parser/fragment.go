package parser

import (
	"slices"
	"strconv"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/rules/settings"
)

// Fragment-line keys.
const (
	KeyName      = "Name"
	KeyFormula   = "Formula"
	KeyCharge    = "Charge"
	KeyMSLevel   = "MSLevel"
	KeyMandatory = "mandatory"
)

var fragmentKeys = []string{KeyName, KeyFormula, KeyCharge, KeyMSLevel, KeyMandatory}

// tokenize splits a fragment line into key=value tokens.
func (c *compilation) tokenize(line string) []string {
	if !c.p.compat {
		return strings.Fields(line)
	}
	var tokens []string
	for _, part := range strings.Split(line, "\t") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func (c *compilation) fragmentLine(line string) error {
	fields := make(map[string]string, len(fragmentKeys))
	for _, tok := range c.tokenize(line) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			return c.fail("fragment entry %q is not of the form key=value", tok)
		}
		if !slices.Contains(fragmentKeys, key) {
			return c.fail("unknown fragment key %q", key).
				WithSuggestion(rulesErrors.SuggestName(key, fragmentKeys))
		}
		if _, dup := fields[key]; dup {
			return c.fail("fragment key %s is given more than once", key)
		}
		fields[key] = value
	}

	name, hasName := fields[KeyName]
	if err := c.checkName(name, hasName); err != nil {
		return err
	}

	section := c.state.section
	if existing, ok := c.builder.Fragments().Lookup(name); ok {
		return c.wrap(&ast.DuplicateFragmentError{Name: name, Section: section, Existing: existing})
	}

	formulaText := fields[KeyFormula]
	if formulaText == "" {
		return c.fail("fragment %q has no %s", name, KeyFormula).
			WithSuggestion("Add Formula=<formula>, e.g. Formula=$PRECURSOR-H2O")
	}
	res, err := c.p.formulas.Validate(formulaText, c.builder.Fragments())
	if err != nil {
		return c.fail("fragment %q has an invalid formula %q: %v", name, formulaText, err).Wrap(err)
	}
	if err := c.checkChainType(name, res.ChainType, res.ChainSource); err != nil {
		return err
	}

	charge, err := c.intField(fields, KeyCharge, ast.DefaultCharge, 1)
	if err != nil {
		return err
	}
	msLevel, err := c.intField(fields, KeyMSLevel, ast.DefaultMSLevel, 2)
	if err != nil {
		return err
	}
	mandatory, other, err := parseMandatory(fields[KeyMandatory], true)
	if err != nil {
		return c.wrap(err)
	}

	f := ast.FragmentRule{
		Name:             name,
		Formula:          formulaText,
		Charge:           charge,
		MSLevel:          msLevel,
		Mandatory:        mandatory,
		FromOtherSpecies: other,
		ChainType:        res.ChainType,
		Section:          section,
		Location:         c.loc(),
	}
	if err := c.builder.AddFragment(f); err != nil {
		return c.wrap(err)
	}
	return nil
}

func (c *compilation) checkName(name string, present bool) error {
	switch {
	case !present || name == "":
		return c.fail("fragment definition has no %s", KeyName)
	case strings.ContainsAny(name, "$="):
		return c.fail("fragment name %q must not contain '$' or '='", name)
	case strings.ContainsAny(name, "<>"):
		return c.fail("fragment name %q must not contain '<' or '>'", name)
	case strings.Contains(name, ast.BasePeak):
		return c.fail("fragment name %q must not contain the reserved literal %s", name, ast.BasePeak)
	case !c.p.compat && strings.ContainsAny(name, "()"):
		return c.fail("fragment name %q must not contain parentheses", name).
			WithSuggestion("Enable compatibility mode to allow parentheses in fragment names")
	}
	return nil
}

// checkChainType enforces the chain rules of the current section.
func (c *compilation) checkChainType(name string, chain ast.ChainType, source string) error {
	switch c.state.section {
	case ast.SectionHead:
		if chain != ast.ChainNone {
			return c.fail("%s fragment %q must not be built on a chain; its formula uses %s",
				ast.SectionHead.Header(), name, source)
		}
		return nil
	case ast.SectionChains:
	default:
		return nil
	}

	if chain == ast.ChainNone {
		return c.fail("%s fragment %q must use one of %s, %s or %s in its formula",
			ast.SectionChains.Header(), name, ast.TokenChain, ast.TokenAlkylChain, ast.TokenAlkenylChain)
	}

	table := c.builder.General()
	if !table.Has(settings.KeyAmountOfChains) {
		return c.fail("chain fragment %q needs %s to be declared in %s first",
			name, settings.KeyAmountOfChains, ast.SectionGeneral.Header())
	}
	if table.Quota(chain.String()) > 0 {
		return nil
	}

	var permitted []string
	for _, ct := range ast.ChainTypes() {
		if table.Quota(ct.String()) > 0 {
			permitted = append(permitted, ct.String())
		}
	}
	if len(permitted) == 0 {
		return c.fail("fragment %q uses %s (%s), but %s=%d leaves no chain types available",
			name, source, chain, settings.KeyAmountOfChains, table.AmountOfChains())
	}
	return c.fail("fragment %q uses %s (%s), but no %s chains are available; permitted chain types: %s",
		name, source, chain, chain, strings.Join(permitted, ", "))
}

// intField parses an optional integer key with a lower bound.
func (c *compilation) intField(fields map[string]string, key string, def, lowest int) (int, error) {
	raw, ok := fields[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, c.fail("%s=%q is not an integer", key, raw)
	}
	if v < lowest {
		return 0, c.fail("%s must be at least %d; found %d", key, lowest, v)
	}
	return v, nil
}
