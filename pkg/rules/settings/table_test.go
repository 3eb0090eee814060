package settings

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFraction(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		wantErr string
	}{
		{value: "0", want: 0},
		{value: "0.25", want: 0.25},
		{value: "99.9%", want: 0.999},
		{value: "5%", want: 0.05},
		{value: "50‰", want: 0.05},
		{value: "100%", wantErr: "found 100%"},
		{value: "-1%", wantErr: "found -1%"},
		{value: "1", wantErr: "found 1"},
		{value: "1000‰", wantErr: "found 1000‰"},
		{value: "abc", wantErr: "must be a fraction"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseFraction(KeyBasePeakCutoff, tt.value)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseFraction(%q) = %v, want error", tt.value, got)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFraction(%q) failed: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseFraction(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestTable_ParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{"count", "AmountOfChains=2", false},
		{"negative count", "AmountOfChains=-1", true},
		{"count not a number", "AlkylChains=two", true},
		{"chain library", "ChainLibrary=FA.xlsx", false},
		{"bad chain library", "ChainLibrary=FA.doc", true},
		{"pattern", `CAtomsFromName=.*?(\d+):\d+`, false},
		{"pattern without group", `CAtomsFromName=\d+`, true},
		{"broken pattern", `DoubleBondsFromName=(\d+`, true},
		{"flag", "SingleChainIdentification=yes", false},
		{"flag anything", "IgnorePositionForUnion=maybe", false},
		{"float", "RetentionTimeMaxDeviation=0.5", false},
		{"float invalid", "IsobarRtDiff=fast", true},
		{"order", "MSIdentificationOrder=MSnOnly", false},
		{"order invalid", "MSIdentificationOrder=MS2First", true},
		{"no equals", "AmountOfChains", true},
		{"value with equals", `DoubleBondsFromName=\d+:(\d+)=?`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTable().ParseLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLine(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
		})
	}
}

func TestTable_UnknownKey(t *testing.T) {
	err := NewTable().ParseLine("AmountOfChain=2")
	var unknown *UnknownKeyError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownKeyError", err)
	}
	if unknown.Key != "AmountOfChain" {
		t.Errorf("Key = %q, want %q", unknown.Key, "AmountOfChain")
	}
}

func TestTable_DuplicateAndFrozen(t *testing.T) {
	table := NewTable()
	if err := table.Set(KeyAmountOfChains, "2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := table.Set(KeyAmountOfChains, "3"); err == nil {
		t.Error("second Set() of the same key should fail")
	}

	table.Freeze()
	if err := table.Set(KeyAlkylChains, "1"); !errors.Is(err, ErrFrozen) {
		t.Errorf("Set() after Freeze = %v, want ErrFrozen", err)
	}
}

func TestTable_Defaults(t *testing.T) {
	table := NewTable()

	if got := table.BasePeakCutoff(); got != 0 {
		t.Errorf("BasePeakCutoff() = %v, want 0", got)
	}
	if _, ok := table.ChainCutoff(); ok {
		t.Error("ChainCutoff() should be unset by default")
	}
	if !table.RetentionTimePostprocessing() {
		t.Error("RetentionTimePostprocessing() should default to true")
	}
	if table.MSIdentificationOrder() != OrderMS1First {
		t.Errorf("MSIdentificationOrder() = %v, want MS1First", table.MSIdentificationOrder())
	}
	if got := table.Missing(); len(got) != len(RequiredKeys) {
		t.Errorf("Missing() = %v, want all required keys", got)
	}
}

func TestTable_TypedGetters(t *testing.T) {
	table := NewTable()
	lines := []string{
		"AmountOfChains=3",
		"AlkylChains=1",
		"AlkenylChains=1",
		"AddChainPositions=1",
		"ChainCutoff=5%",
		"MSIdentificationOrder=MSnFirst",
		"RetentionTimePostprocessing=no",
		`CAtomsFromName=.*?(\d+):\d+`,
	}
	for _, line := range lines {
		if err := table.ParseLine(line); err != nil {
			t.Fatalf("ParseLine(%q) failed: %v", line, err)
		}
	}

	if got := table.AcylChains(); got != 1 {
		t.Errorf("AcylChains() = %d, want 1", got)
	}
	if got := table.MaxChainPositions(); got != 4 {
		t.Errorf("MaxChainPositions() = %d, want 4", got)
	}
	if v, ok := table.ChainCutoff(); !ok || v != 0.05 {
		t.Errorf("ChainCutoff() = %v, %v, want 0.05, true", v, ok)
	}
	if table.MSIdentificationOrder() != OrderMSnFirst || int(table.MSIdentificationOrder()) != 1 {
		t.Errorf("MSIdentificationOrder() = %v, want MSnFirst (1)", table.MSIdentificationOrder())
	}
	if table.RetentionTimePostprocessing() {
		t.Error("RetentionTimePostprocessing() = true, want false")
	}
	re := table.CAtomsFromName()
	if re == nil {
		t.Fatal("CAtomsFromName() = nil")
	}
	if m := re.FindStringSubmatch("FA 16:0"); len(m) != 2 || m[1] != "16" {
		t.Errorf("CAtomsFromName match = %v, want [.. 16]", m)
	}
	if got := table.Keys(); len(got) != len(lines) || got[0] != KeyAmountOfChains {
		t.Errorf("Keys() = %v, want declaration order", got)
	}
}

func TestGeneral_RoundTrip(t *testing.T) {
	dev := 0.25
	union := 0.1
	g := DefaultGeneral()
	g.AmountOfChains = 2
	g.ChainLibrary = "FA.xlsx"
	g.CAtomsFromName = `.*?(\d+):\d+`
	g.DoubleBondsFromName = `\d+:(\d+)`
	g.AlkylChains = 1
	g.BasePeakCutoff = &Fraction{Value: 0.05, Text: "5%"}
	g.SpectrumCoverage = &Fraction{Value: 0.2}
	g.RetentionTimePostprocessing = false
	g.RetentionTimeMaxDeviation = &dev
	g.MSIdentificationOrder = OrderMSnOnly
	g.EnforcePeakUnionTime = &union
	g.AddChainPositions = 1

	table := NewTable()
	for _, e := range g.Entries() {
		if err := table.Set(e.Key, e.Value); err != nil {
			t.Fatalf("Set(%s=%s) failed: %v", e.Key, e.Value, err)
		}
	}

	if table.AmountOfChains() != 2 || table.AlkylChains() != 1 || table.AlkenylChains() != 0 {
		t.Errorf("chain counts = %d/%d/%d, want 2/1/0",
			table.AmountOfChains(), table.AlkylChains(), table.AlkenylChains())
	}
	if table.BasePeakCutoff() != 0.05 {
		t.Errorf("BasePeakCutoff() = %v, want 0.05", table.BasePeakCutoff())
	}
	if v, ok := table.SpectrumCoverage(); !ok || v != 0.2 {
		t.Errorf("SpectrumCoverage() = %v, %v, want 0.2", v, ok)
	}
	if table.RetentionTimePostprocessing() {
		t.Error("RetentionTimePostprocessing() = true, want false")
	}
	if v, ok := table.RetentionTimeMaxDeviation(); !ok || v != dev {
		t.Errorf("RetentionTimeMaxDeviation() = %v, %v, want %v", v, ok, dev)
	}
	if table.MSIdentificationOrder() != OrderMSnOnly {
		t.Errorf("MSIdentificationOrder() = %v, want MSnOnly", table.MSIdentificationOrder())
	}
	if table.AddChainPositions() != 1 {
		t.Errorf("AddChainPositions() = %d, want 1", table.AddChainPositions())
	}
	if table.Has(KeyAlkenylChains) || table.Has(KeyChainCutoff) || table.Has(KeySingleChainIdentification) {
		t.Errorf("defaults should be omitted, got keys %v", table.Keys())
	}
	if raw, _ := table.Raw(KeyBasePeakCutoff); raw != "5%" {
		t.Errorf("BasePeakCutoff text = %q, want %q", raw, "5%")
	}

	back := table.General()
	if back.ChainLibrary != g.ChainLibrary || back.DoubleBondsFromName != g.DoubleBondsFromName {
		t.Errorf("General() = %+v, want strings preserved", back)
	}
}
