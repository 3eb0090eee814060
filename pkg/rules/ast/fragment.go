package ast

// FragmentRule is one declared fragment of a [HEAD] or [CHAINS] section.
type FragmentRule struct {
	Name             string    `json:"name" yaml:"name"`
	Formula          string    `json:"formula" yaml:"formula"`
	Charge           int       `json:"charge" yaml:"charge"`
	MSLevel          int       `json:"ms_level" yaml:"ms_level"`
	Mandatory        bool      `json:"mandatory" yaml:"mandatory"`
	FromOtherSpecies bool      `json:"from_other_species,omitempty" yaml:"from_other_species,omitempty"`
	ChainType        ChainType `json:"chain_type" yaml:"chain_type"`
	Section          Section   `json:"section" yaml:"section"`
	Location         Location  `json:"location" yaml:"location"`
}

// Fragment defaults applied when Charge or MSLevel are omitted.
const (
	DefaultCharge  = 1
	DefaultMSLevel = 2
)

// MandatoryLiteral returns the value of the "mandatory" key for this fragment.
func (f *FragmentRule) MandatoryLiteral() string {
	switch {
	case f.FromOtherSpecies:
		return "other"
	case f.Mandatory:
		return "true"
	}
	return "false"
}

// FragmentSet is an insertion-ordered collection of fragments keyed by name.
// The exported API is read only; sets are filled by DocumentBuilder.
type FragmentSet struct {
	order []*FragmentRule
	index map[string]int
}

func newFragmentSet() *FragmentSet {
	return &FragmentSet{index: make(map[string]int)}
}

func (s *FragmentSet) add(f *FragmentRule) {
	s.index[f.Name] = len(s.order)
	s.order = append(s.order, f)
}

// Get returns a copy of the named fragment.
func (s *FragmentSet) Get(name string) (FragmentRule, bool) {
	if s == nil {
		return FragmentRule{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return FragmentRule{}, false
	}
	return *s.order[i], true
}

// Has reports whether the set contains the named fragment.
func (s *FragmentSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Len returns the number of fragments.
func (s *FragmentSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Names returns the fragment names in declaration order.
func (s *FragmentSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.order))
	for i, f := range s.order {
		names[i] = f.Name
	}
	return names
}

// All returns copies of the fragments in declaration order.
func (s *FragmentSet) All() []FragmentRule {
	if s == nil {
		return nil
	}
	all := make([]FragmentRule, len(s.order))
	for i, f := range s.order {
		all[i] = *f
	}
	return all
}
