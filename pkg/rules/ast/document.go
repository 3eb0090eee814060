package ast

import (
	"errors"
	"fmt"

	"lipidhq/fragrules/pkg/rules/settings"
)

// ErrDocumentFinal is returned when a builder is used after Build.
var ErrDocumentFinal = errors.New("rule document is already final")

// DuplicateFragmentError reports a fragment name that is already declared.
type DuplicateFragmentError struct {
	Name     string
	Section  Section
	Existing FragmentRule
}

func (e *DuplicateFragmentError) Error() string {
	return fmt.Sprintf("fragment %q in %s is already defined in %s",
		e.Name, e.Section.Header(), e.Existing.Section.Header())
}

// RuleDocument is the compiled form of one rule file. It is immutable: all
// accessors return copies or read-only views.
type RuleDocument struct {
	source              string
	general             *settings.Table
	head                *FragmentSet
	chains              *FragmentSet
	headIntensities     []*IntensityRule
	chainIntensities    []*IntensityRule
	positionIntensities []*IntensityRule
}

// Source returns the path or label the document was parsed from.
func (d *RuleDocument) Source() string { return d.source }

// General returns the frozen general-settings table.
func (d *RuleDocument) General() *settings.Table { return d.general }

// HeadFragments returns the [HEAD] fragments.
func (d *RuleDocument) HeadFragments() *FragmentSet { return d.head }

// ChainFragments returns the [CHAINS] fragments.
func (d *RuleDocument) ChainFragments() *FragmentSet { return d.chains }

// Fragment looks a name up in both namespaces.
func (d *RuleDocument) Fragment(name string) (FragmentRule, bool) {
	if f, ok := d.head.Get(name); ok {
		return f, true
	}
	return d.chains.Get(name)
}

// FragmentCount returns the number of fragments across both sections.
func (d *RuleDocument) FragmentCount() int {
	return d.head.Len() + d.chains.Len()
}

// HeadIntensities returns copies of the [HEAD] intensity rules.
func (d *RuleDocument) HeadIntensities() []IntensityRule { return cloneRules(d.headIntensities) }

// ChainIntensities returns copies of the [CHAINS] intensity rules.
func (d *RuleDocument) ChainIntensities() []IntensityRule { return cloneRules(d.chainIntensities) }

// PositionIntensities returns copies of the [POSITION] intensity rules.
func (d *RuleDocument) PositionIntensities() []IntensityRule {
	return cloneRules(d.positionIntensities)
}

// Intensities returns the intensity rules of one section.
func (d *RuleDocument) Intensities(section Section) []IntensityRule {
	switch section {
	case SectionHead:
		return d.HeadIntensities()
	case SectionChains:
		return d.ChainIntensities()
	case SectionPosition:
		return d.PositionIntensities()
	}
	return nil
}

// IntensityCount returns the number of intensity rules across all sections.
func (d *RuleDocument) IntensityCount() int {
	return len(d.headIntensities) + len(d.chainIntensities) + len(d.positionIntensities)
}

func cloneRules(rules []*IntensityRule) []IntensityRule {
	out := make([]IntensityRule, len(rules))
	for i, r := range rules {
		out[i] = r.Clone()
	}
	return out
}

// FragmentView is a read-only window onto the fragments declared so far.
type FragmentView struct {
	head   *FragmentSet
	chains *FragmentSet
}

// Lookup finds a fragment in either namespace.
func (v FragmentView) Lookup(name string) (FragmentRule, bool) {
	if f, ok := v.head.Get(name); ok {
		return f, true
	}
	return v.chains.Get(name)
}

// Names returns every declared name, head fragments first.
func (v FragmentView) Names() []string {
	return append(v.head.Names(), v.chains.Names()...)
}

// SectionNames returns the names declared in one section.
func (v FragmentView) SectionNames(section Section) []string {
	switch section {
	case SectionHead:
		return v.head.Names()
	case SectionChains:
		return v.chains.Names()
	}
	return nil
}

// Len returns the number of declared fragments.
func (v FragmentView) Len() int {
	return v.head.Len() + v.chains.Len()
}

// DocumentBuilder accumulates a RuleDocument during one parse. Build hands the
// document out exactly once; the builder rejects every call afterwards.
type DocumentBuilder struct {
	doc   *RuleDocument
	final bool
}

// NewDocumentBuilder starts an empty document for the given source.
func NewDocumentBuilder(source string) *DocumentBuilder {
	return &DocumentBuilder{
		doc: &RuleDocument{
			source:  source,
			general: settings.NewTable(),
			head:    newFragmentSet(),
			chains:  newFragmentSet(),
		},
	}
}

// General returns the settings table being filled.
func (b *DocumentBuilder) General() *settings.Table {
	return b.doc.general
}

// Fragments returns a read-only view of the fragments added so far.
func (b *DocumentBuilder) Fragments() FragmentView {
	return FragmentView{head: b.doc.head, chains: b.doc.chains}
}

// AddFragment inserts a fragment into the namespace of its section.
// Names are unique across [HEAD] and [CHAINS] together.
func (b *DocumentBuilder) AddFragment(f FragmentRule) error {
	if b.final {
		return ErrDocumentFinal
	}
	if existing, ok := b.Fragments().Lookup(f.Name); ok {
		return &DuplicateFragmentError{Name: f.Name, Section: f.Section, Existing: existing}
	}
	switch f.Section {
	case SectionHead:
		b.doc.head.add(&f)
	case SectionChains:
		b.doc.chains.add(&f)
	default:
		return fmt.Errorf("fragments cannot be declared in %s", f.Section.Header())
	}
	return nil
}

// AddIntensity appends an intensity rule to the list of its section.
func (b *DocumentBuilder) AddIntensity(r IntensityRule) error {
	if b.final {
		return ErrDocumentFinal
	}
	switch r.Section {
	case SectionHead:
		b.doc.headIntensities = append(b.doc.headIntensities, &r)
	case SectionChains:
		b.doc.chainIntensities = append(b.doc.chainIntensities, &r)
	case SectionPosition:
		b.doc.positionIntensities = append(b.doc.positionIntensities, &r)
	default:
		return fmt.Errorf("intensity rules cannot be declared in %s", r.Section.Header())
	}
	return nil
}

// Build freezes the settings table and returns the finished document.
func (b *DocumentBuilder) Build() (*RuleDocument, error) {
	if b.final {
		return nil, ErrDocumentFinal
	}
	b.final = true
	b.doc.general.Freeze()
	return b.doc, nil
}
