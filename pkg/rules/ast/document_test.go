package ast

import (
	"errors"
	"strings"
	"testing"
)

func TestDocumentBuilder_Uniqueness(t *testing.T) {
	b := NewDocumentBuilder("test")
	if err := b.AddFragment(FragmentRule{Name: "X", Section: SectionHead}); err != nil {
		t.Fatalf("AddFragment() failed: %v", err)
	}

	err := b.AddFragment(FragmentRule{Name: "X", Section: SectionChains})
	var dup *DuplicateFragmentError
	if !errors.As(err, &dup) {
		t.Fatalf("AddFragment() error = %v, want *DuplicateFragmentError", err)
	}
	if msg := dup.Error(); !strings.Contains(msg, "[HEAD]") || !strings.Contains(msg, "[CHAINS]") {
		t.Errorf("Error() = %q, want both sections named", msg)
	}

	if err := b.AddFragment(FragmentRule{Name: "Y", Section: SectionPosition}); err == nil {
		t.Error("AddFragment() into [POSITION] succeeded")
	}
	if err := b.AddIntensity(IntensityRule{Section: SectionGeneral}); err == nil {
		t.Error("AddIntensity() into [GENERAL] succeeded")
	}
}

func TestDocumentBuilder_BuildOnce(t *testing.T) {
	b := NewDocumentBuilder("test")
	if err := b.General().Set("AmountOfChains", "2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_ = b.AddFragment(FragmentRule{Name: "FA", Section: SectionChains, ChainType: ChainAcyl})
	_ = b.AddIntensity(IntensityRule{Section: SectionChains, SourceEquation: "FA>BASEPEAK"})

	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if doc.Source() != "test" || doc.FragmentCount() != 1 || doc.IntensityCount() != 1 {
		t.Errorf("document = %q/%d/%d, want test/1/1", doc.Source(), doc.FragmentCount(), doc.IntensityCount())
	}

	if _, err := b.Build(); !errors.Is(err, ErrDocumentFinal) {
		t.Errorf("second Build() error = %v, want ErrDocumentFinal", err)
	}
	if err := b.AddFragment(FragmentRule{Name: "FB", Section: SectionChains}); !errors.Is(err, ErrDocumentFinal) {
		t.Errorf("AddFragment() after Build() error = %v, want ErrDocumentFinal", err)
	}
	if err := doc.General().Set("AlkylChains", "1"); err == nil {
		t.Error("Set() on a built document succeeded")
	}
}

func TestRuleDocument_ReturnsCopies(t *testing.T) {
	b := NewDocumentBuilder("test")
	_ = b.AddFragment(FragmentRule{Name: "A", Section: SectionHead, Formula: "H2O"})
	_ = b.AddIntensity(IntensityRule{
		Section: SectionHead,
		Bigger:  ComparisonExpression{Terms: []FragmentTerm{{Name: "A", Multiplier: One()}}},
		Smaller: ComparisonExpression{Terms: []FragmentTerm{{Name: BasePeak, Multiplier: One()}}},
	})
	doc, _ := b.Build()

	f, _ := doc.Fragment("A")
	f.Formula = "changed"
	if again, _ := doc.Fragment("A"); again.Formula != "H2O" {
		t.Errorf("Formula = %q after modifying a copy, want H2O", again.Formula)
	}

	rules := doc.HeadIntensities()
	rules[0].Bigger.Terms[0].Name = "changed"
	if got := doc.HeadIntensities()[0].Bigger.Terms[0].Name; got != "A" {
		t.Errorf("term name = %q after modifying a copy, want A", got)
	}
	if refs := doc.HeadIntensities()[0].References(); len(refs) != 1 || refs[0] != "A" {
		t.Errorf("References() = %v, want [A]", refs)
	}
}

func TestRuleDocument_View(t *testing.T) {
	b := NewDocumentBuilder("PC_H.frag.txt")
	_ = b.General().Set("ChainLibrary", "FA.xlsx")
	_ = b.General().Set("AmountOfChains", "2")
	_ = b.AddFragment(FragmentRule{Name: "A", Section: SectionHead})
	doc, _ := b.Build()

	v := doc.View()
	if len(v.General) != 2 || v.General[0].Key != "ChainLibrary" || v.General[1].Value != "2" {
		t.Errorf("General = %+v, want declaration order", v.General)
	}
	if len(v.HeadFragments) != 1 || len(v.ChainFragments) != 0 {
		t.Errorf("fragments = %d/%d, want 1/0", len(v.HeadFragments), len(v.ChainFragments))
	}
}

func TestFragmentView(t *testing.T) {
	b := NewDocumentBuilder("test")
	_ = b.AddFragment(FragmentRule{Name: "H1", Section: SectionHead})
	_ = b.AddFragment(FragmentRule{Name: "C1", Section: SectionChains})
	_ = b.AddFragment(FragmentRule{Name: "H2", Section: SectionHead})

	view := b.Fragments()
	if got := strings.Join(view.Names(), ","); got != "H1,H2,C1" {
		t.Errorf("Names() = %q, want %q", got, "H1,H2,C1")
	}
	if got := strings.Join(view.SectionNames(SectionChains), ","); got != "C1" {
		t.Errorf("SectionNames(CHAINS) = %q, want C1", got)
	}
	if _, ok := view.Lookup("C1"); !ok {
		t.Error("Lookup(C1) failed")
	}
	if view.Len() != 3 {
		t.Errorf("Len() = %d, want 3", view.Len())
	}
}

func TestFragmentRule_MandatoryLiteral(t *testing.T) {
	tests := []struct {
		f    FragmentRule
		want string
	}{
		{FragmentRule{}, "false"},
		{FragmentRule{Mandatory: true}, "true"},
		{FragmentRule{FromOtherSpecies: true}, "other"},
	}
	for _, tt := range tests {
		if got := tt.f.MandatoryLiteral(); got != tt.want {
			t.Errorf("MandatoryLiteral() = %q, want %q", got, tt.want)
		}
	}
}
