package formula

import (
	"strings"
	"testing"

	"lipidhq/fragrules/pkg/rules/ast"
)

// fakeLookup is a minimal Lookup for tests.
type fakeLookup map[string]ast.FragmentRule

func (f fakeLookup) Lookup(name string) (ast.FragmentRule, bool) {
	r, ok := f[name]
	return r, ok
}

func (f fakeLookup) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	return names
}

func TestValidator_Validate(t *testing.T) {
	known := fakeLookup{
		"NL_PC":   {Name: "NL_PC", Section: ast.SectionHead},
		"NL_PC_2": {Name: "NL_PC_2", Section: ast.SectionHead},
		"FA":      {Name: "FA", Section: ast.SectionChains, ChainType: ast.ChainAcyl},
	}

	tests := []struct {
		name      string
		formula   string
		wantChain ast.ChainType
		wantRefs  []string
		wantErr   string
	}{
		{name: "elements", formula: "C5H14NO4P", wantChain: ast.ChainNone},
		{name: "spaced elements", formula: "P2 O7 H4", wantChain: ast.ChainNone},
		{name: "precursor loss", formula: "$PRECURSOR-C5H14NO4P", wantChain: ast.ChainNone},
		{name: "acyl chain", formula: "$CHAIN-H", wantChain: ast.ChainAcyl},
		{name: "alkyl chain", formula: "$ALKYLCHAIN+O", wantChain: ast.ChainAlkyl},
		{name: "alkenyl chain", formula: "$PRECURSOR-$ALKENYLCHAIN", wantChain: ast.ChainAlkenyl},
		{name: "reference", formula: "NL_PC-H2O", wantRefs: []string{"NL_PC"}},
		{name: "longest reference wins", formula: "NL_PC_2+Na", wantRefs: []string{"NL_PC_2"}},
		{name: "inherited chain", formula: "FA-H2O", wantChain: ast.ChainAcyl, wantRefs: []string{"FA"}},
		{name: "deuterium", formula: "C2D5", wantChain: ast.ChainNone},
		{name: "unknown token", formula: "$FOO", wantErr: "unknown token"},
		{name: "unknown element", formula: "Xy2", wantErr: "unknown element"},
		{name: "undeclared fragment", formula: "NL_PE-H2O", wantErr: "unknown element or fragment"},
		{name: "two chains", formula: "$CHAIN+$ALKYLCHAIN", wantErr: "more than one chain"},
		{name: "two signs", formula: "$CHAIN+-H", wantErr: "two signs"},
		{name: "trailing sign", formula: "H2O-", wantErr: "ends with a sign"},
		{name: "empty", formula: "  ", wantErr: "empty"},
		{name: "zero count", formula: "C0H2", wantErr: "zero count"},
		{name: "bad character", formula: "H2O*2", wantErr: "unexpected character"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(tt.formula, known)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Validate(%q) succeeded, want error containing %q", tt.formula, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) failed: %v", tt.formula, err)
			}
			if res.ChainType != tt.wantChain {
				t.Errorf("ChainType = %v, want %v", res.ChainType, tt.wantChain)
			}
			if strings.Join(res.References, ",") != strings.Join(tt.wantRefs, ",") {
				t.Errorf("References = %v, want %v", res.References, tt.wantRefs)
			}
		})
	}
}

func TestValidator_ElementCounts(t *testing.T) {
	res, err := NewValidator().Validate("C5H14NO4P-H2O", nil)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	want := map[string]int{"C": 5, "H": 12, "N": 1, "O": 3, "P": 1}
	for el, n := range want {
		if res.Elements[el] != n {
			t.Errorf("Elements[%s] = %d, want %d", el, res.Elements[el], n)
		}
	}
}

func TestValidator_Precursor(t *testing.T) {
	res, err := NewValidator().Validate("$PRECURSOR-NH3", nil)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if !res.Precursor {
		t.Error("Precursor = false, want true")
	}
}
