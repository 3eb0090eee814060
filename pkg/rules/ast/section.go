package ast

import "fmt"

// Section identifies a top-level block of a rule file.
type Section int

const (
	SectionNone Section = iota
	SectionGeneral
	SectionHead
	SectionChains
	SectionPosition
)

var sectionNames = map[Section]string{
	SectionGeneral:  "GENERAL",
	SectionHead:     "HEAD",
	SectionChains:   "CHAINS",
	SectionPosition: "POSITION",
}

// String returns the bare section name, e.g. "HEAD".
func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return "NONE"
}

// Header returns the literal header line of the section, e.g. "[HEAD]".
func (s Section) Header() string {
	return "[" + s.String() + "]"
}

// HasFragments reports whether the section may declare fragments.
func (s Section) HasFragments() bool {
	return s == SectionHead || s == SectionChains
}

// HasIntensities reports whether the section may declare intensity rules.
func (s Section) HasIntensities() bool {
	return s == SectionHead || s == SectionChains || s == SectionPosition
}

// ParseSectionHeader maps a header line such as "[CHAINS]" to its Section.
func ParseSectionHeader(header string) (Section, bool) {
	for s, name := range sectionNames {
		if header == "["+name+"]" {
			return s, true
		}
	}
	return SectionNone, false
}

// SectionHeaders lists the recognized header literals in file order.
func SectionHeaders() []string {
	return []string{
		SectionGeneral.Header(),
		SectionHead.Header(),
		SectionChains.Header(),
		SectionPosition.Header(),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Section) UnmarshalText(text []byte) error {
	parsed, ok := ParseSectionHeader("[" + string(text) + "]")
	if !ok {
		return fmt.Errorf("unknown section %q", string(text))
	}
	*s = parsed
	return nil
}

// Subsection identifies the "!FRAGMENTS" / "!INTENSITIES" block inside a section.
type Subsection int

const (
	SubsectionNone Subsection = iota
	SubsectionFragments
	SubsectionIntensities
)

const (
	FragmentsMarker   = "!FRAGMENTS"
	IntensitiesMarker = "!INTENSITIES"
)

// String returns the marker literal of the subsection.
func (s Subsection) String() string {
	switch s {
	case SubsectionFragments:
		return FragmentsMarker
	case SubsectionIntensities:
		return IntensitiesMarker
	}
	return "NONE"
}

// ParseSubsectionMarker maps a marker line to its Subsection.
func ParseSubsectionMarker(marker string) (Subsection, bool) {
	switch marker {
	case FragmentsMarker:
		return SubsectionFragments, true
	case IntensitiesMarker:
		return SubsectionIntensities, true
	}
	return SubsectionNone, false
}
