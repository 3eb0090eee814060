package ast

// IntensityRule is one compiled "Equation=" line.
// Bigger is the side denoting the larger quantity, whichever side of the
// comparator it was written on.
type IntensityRule struct {
	Section        Section              `json:"section" yaml:"section"`
	SourceEquation string               `json:"equation" yaml:"equation"`
	Bigger         ComparisonExpression `json:"bigger" yaml:"bigger"`
	Smaller        ComparisonExpression `json:"smaller" yaml:"smaller"`
	Mandatory      bool                 `json:"mandatory" yaml:"mandatory"`
	Location       Location             `json:"location" yaml:"location"`
}

// Equation returns the source equation, or a rendering of the two sides
// when the rule was built in memory.
func (r *IntensityRule) Equation() string {
	if r.SourceEquation != "" {
		return r.SourceEquation
	}
	return r.Bigger.String() + ">" + r.Smaller.String()
}

// References returns every fragment name used on either side, BASEPEAK excluded.
func (r *IntensityRule) References() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, side := range []ComparisonExpression{r.Bigger, r.Smaller} {
		for _, t := range side.Terms {
			if t.IsBasePeak() || seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			refs = append(refs, t.Name)
		}
	}
	return refs
}

// Clone returns a deep copy.
func (r *IntensityRule) Clone() IntensityRule {
	c := *r
	c.Bigger = r.Bigger.clone()
	c.Smaller = r.Smaller.clone()
	return c
}
