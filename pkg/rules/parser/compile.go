package parser

import (
	"errors"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/rules/settings"
)

// compilation holds the state of one parse. It is discarded on the first error.
type compilation struct {
	p       *Parser
	source  string
	state   *scanState
	builder *ast.DocumentBuilder
	line    int
}

func newCompilation(p *Parser, source string) *compilation {
	b := ast.NewDocumentBuilder(source)
	b.General().UseChainLibraries(p.chainLibs)
	return &compilation{
		p:       p,
		source:  source,
		state:   newScanState(),
		builder: b,
	}
}

func (c *compilation) loc() ast.Location {
	return ast.Location{File: c.source, Line: c.line}
}

// fail creates a rules violation at the current line.
func (c *compilation) fail(format string, args ...any) *rulesErrors.Error {
	return rulesErrors.Rules(c.loc(), format, args...)
}

// wrap turns err into a rules violation at the current line.
func (c *compilation) wrap(err error) *rulesErrors.Error {
	return rulesErrors.Rules(c.loc(), "%s", err.Error()).Wrap(err)
}

func (c *compilation) run(lines []string) (*ast.RuleDocument, error) {
	for i, raw := range lines {
		c.line = i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if err := c.scanLine(line); err != nil {
			return nil, err
		}
	}
	c.line = 0

	if err := c.finish(); err != nil {
		return nil, err
	}
	return c.builder.Build()
}

func isSectionHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

// scanLine applies a state transition or dispatches a content line.
func (c *compilation) scanLine(line string) error {
	if isSectionHeader(line) {
		sec, ok := ast.ParseSectionHeader(line)
		if !ok {
			return c.fail("unknown section header %q", line).
				WithSuggestion(rulesErrors.SuggestName(line, ast.SectionHeaders()))
		}
		if err := c.state.enterSection(sec); err != nil {
			return c.wrap(err)
		}
		return nil
	}

	if strings.HasPrefix(line, "!") {
		sub, ok := ast.ParseSubsectionMarker(line)
		if !ok {
			return c.fail("unknown subsection marker %q", line).
				WithSuggestion(rulesErrors.SuggestName(line, []string{ast.FragmentsMarker, ast.IntensitiesMarker}))
		}
		if err := c.state.enterSubsection(sub); err != nil {
			return c.wrap(err)
		}
		return nil
	}

	switch c.state.target() {
	case targetGeneral:
		return c.generalLine(line)
	case targetFragment:
		return c.fragmentLine(line)
	case targetIntensity:
		return c.intensityLine(line)
	}
	return nil
}

func (c *compilation) generalLine(line string) error {
	err := c.builder.General().ParseLine(line)
	if err == nil {
		return nil
	}
	var unknown *settings.UnknownKeyError
	if errors.As(err, &unknown) {
		return c.wrap(err).WithSuggestion(rulesErrors.SuggestName(unknown.Key, settings.Keys()))
	}
	return c.wrap(err)
}
