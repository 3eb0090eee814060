package parser

import (
	"fmt"

	"lipidhq/fragrules/pkg/rules/ast"
)

// target is where a content line goes.
type target int

const (
	targetIgnore target = iota
	targetGeneral
	targetFragment
	targetIntensity
)

// scanState is the section/subsection state of one parse.
type scanState struct {
	section    ast.Section
	subsection ast.Subsection
	seen       map[ast.Section]bool
}

func newScanState() *scanState {
	return &scanState{seen: make(map[ast.Section]bool)}
}

// enterSection switches to sec and resets the subsection.
func (s *scanState) enterSection(sec ast.Section) error {
	if s.seen[sec] {
		return fmt.Errorf("section %s is declared more than once", sec.Header())
	}
	s.seen[sec] = true
	s.section = sec
	s.subsection = ast.SubsectionNone
	return nil
}

// enterSubsection switches the subsection if the current section allows it.
func (s *scanState) enterSubsection(sub ast.Subsection) error {
	switch s.section {
	case ast.SectionNone:
		return fmt.Errorf("subsection %s appears before any section header", sub)
	case ast.SectionGeneral:
		return fmt.Errorf("%s must not contain subsections; found %s", ast.SectionGeneral.Header(), sub)
	case ast.SectionPosition:
		if sub == ast.SubsectionFragments {
			return fmt.Errorf("%s must not contain %s", ast.SectionPosition.Header(), sub)
		}
	}
	s.subsection = sub
	return nil
}

// target routes a content line according to the current state.
func (s *scanState) target() target {
	if s.section == ast.SectionGeneral {
		return targetGeneral
	}
	switch s.subsection {
	case ast.SubsectionFragments:
		return targetFragment
	case ast.SubsectionIntensities:
		return targetIntensity
	}
	return targetIgnore
}

// hasSeen reports whether a section header was read.
func (s *scanState) hasSeen(sec ast.Section) bool {
	return s.seen[sec]
}
