package parser

import (
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/rules/settings"
)

// settingExamples are shown when a required setting is missing.
var settingExamples = map[string]string{
	settings.KeyAmountOfChains:      "2",
	settings.KeyChainLibrary:        "fattyAcidChains.xlsx",
	settings.KeyCAtomsFromName:      `\D*(\d+):\d+`,
	settings.KeyDoubleBondsFromName: `\D*\d+:(\d+)`,
}

// finish runs the end-of-file checks.
func (c *compilation) finish() error {
	if !c.state.hasSeen(ast.SectionGeneral) {
		return rulesErrors.IO(c.source, nil, "mandatory section %s is missing", ast.SectionGeneral.Header())
	}
	if !c.state.hasSeen(ast.SectionHead) && !c.state.hasSeen(ast.SectionChains) {
		return rulesErrors.IO(c.source, nil, "the rule file has no head and chains sections; add %s or %s",
			ast.SectionHead.Header(), ast.SectionChains.Header())
	}
	if c.builder.Fragments().Len() == 0 {
		return c.fail("no fragments are defined in %s or %s", ast.SectionHead.Header(), ast.SectionChains.Header())
	}

	table := c.builder.General()
	if missing := table.Missing(); len(missing) > 0 {
		return c.fail("%s is missing required setting(s): %s", ast.SectionGeneral.Header(), strings.Join(missing, ", ")).
			WithSuggestion(rulesErrors.SuggestMissingSetting(missing[0], settingExamples[missing[0]]))
	}

	alkyl, alkenyl, total := table.AlkylChains(), table.AlkenylChains(), table.AmountOfChains()
	if alkyl+alkenyl > total {
		return c.fail("%s (%d) plus %s (%d) exceed %s (%d)",
			settings.KeyAlkylChains, alkyl, settings.KeyAlkenylChains, alkenyl, settings.KeyAmountOfChains, total)
	}
	return nil
}
