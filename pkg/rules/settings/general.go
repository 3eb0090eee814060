package settings

import (
	"strconv"
)

// Fraction is a validated fraction setting. Text keeps the literal as written
// ("5%", "0.05"); when empty the value is written as a plain fraction.
type Fraction struct {
	Value float64
	Text  string
}

func (f Fraction) literal() string {
	if f.Text != "" {
		return f.Text
	}
	return formatFloat(f.Value)
}

// General is the [GENERAL] section as a plain value object, used to write
// rule files from settings that did not come out of a parse.
type General struct {
	AmountOfChains              int
	ChainLibrary                string
	CAtomsFromName              string
	DoubleBondsFromName         string
	AlkylChains                 int
	AlkenylChains               int
	BasePeakCutoff              *Fraction
	ChainCutoff                 *Fraction
	SpectrumCoverage            *Fraction
	RetentionTimePostprocessing bool
	RetentionTimeParallelSeries bool
	RetentionTimeMaxDeviation   *float64
	SingleChainIdentification   bool
	MSIdentificationOrder       IdentificationOrder
	EnforcePeakUnionTime        *float64
	IgnorePositionForUnion      bool
	ClassSpecificMS1Cutoff      *float64
	AddChainPositions           int
	IsobarSCExclusionRatio      *float64
	IsobarSCFarExclusionRatio   *float64
	IsobarRtDiff                *float64
}

// DefaultGeneral returns the values the getters report for an empty table.
func DefaultGeneral() General {
	return General{
		RetentionTimePostprocessing: true,
		MSIdentificationOrder:       OrderMS1First,
	}
}

// Entry is one key=value line.
type Entry struct {
	Key   string
	Value string
}

// Entries returns the lines to write in canonical key order. Required keys
// are always present; optional keys are left out when they equal their default.
func (g General) Entries() []Entry {
	var out []Entry
	add := func(key, value string) { out = append(out, Entry{Key: key, Value: value}) }
	addFraction := func(key string, f *Fraction, omitZero bool) {
		if f == nil || (omitZero && f.Value == 0) {
			return
		}
		add(key, f.literal())
	}
	addFloat := func(key string, f *float64) {
		if f != nil {
			add(key, formatFloat(*f))
		}
	}
	addFlag := func(key string, v, def bool) {
		if v != def {
			add(key, strconv.FormatBool(v))
		}
	}
	addCount := func(key string, n int) {
		if n != 0 {
			add(key, strconv.Itoa(n))
		}
	}

	add(KeyAmountOfChains, strconv.Itoa(g.AmountOfChains))
	add(KeyChainLibrary, g.ChainLibrary)
	add(KeyCAtomsFromName, g.CAtomsFromName)
	add(KeyDoubleBondsFromName, g.DoubleBondsFromName)
	addCount(KeyAlkylChains, g.AlkylChains)
	addCount(KeyAlkenylChains, g.AlkenylChains)
	addFraction(KeyBasePeakCutoff, g.BasePeakCutoff, true)
	addFraction(KeyChainCutoff, g.ChainCutoff, false)
	addFraction(KeySpectrumCoverage, g.SpectrumCoverage, false)
	addFlag(KeyRetentionTimePostprocessing, g.RetentionTimePostprocessing, true)
	addFlag(KeyRetentionTimeParallelSeries, g.RetentionTimeParallelSeries, false)
	addFloat(KeyRetentionTimeMaxDeviation, g.RetentionTimeMaxDeviation)
	addFlag(KeySingleChainIdentification, g.SingleChainIdentification, false)
	if g.MSIdentificationOrder != OrderMS1First {
		add(KeyMSIdentificationOrder, g.MSIdentificationOrder.String())
	}
	addFloat(KeyEnforcePeakUnionTime, g.EnforcePeakUnionTime)
	addFlag(KeyIgnorePositionForUnion, g.IgnorePositionForUnion, false)
	addFloat(KeyClassSpecificMS1Cutoff, g.ClassSpecificMS1Cutoff)
	addCount(KeyAddChainPositions, g.AddChainPositions)
	addFloat(KeyIsobarSCExclusionRatio, g.IsobarSCExclusionRatio)
	addFloat(KeyIsobarSCFarExclusionRatio, g.IsobarSCFarExclusionRatio)
	addFloat(KeyIsobarRtDiff, g.IsobarRtDiff)
	return out
}

// General converts the table into a value object. Fraction literals keep
// their original text.
func (t *Table) General() General {
	g := DefaultGeneral()
	g.AmountOfChains = t.AmountOfChains()
	g.ChainLibrary = t.ChainLibrary()
	g.CAtomsFromName, _ = t.Raw(KeyCAtomsFromName)
	g.DoubleBondsFromName, _ = t.Raw(KeyDoubleBondsFromName)
	g.AlkylChains = t.AlkylChains()
	g.AlkenylChains = t.AlkenylChains()
	g.BasePeakCutoff = t.fractionSetting(KeyBasePeakCutoff)
	g.ChainCutoff = t.fractionSetting(KeyChainCutoff)
	g.SpectrumCoverage = t.fractionSetting(KeySpectrumCoverage)
	g.RetentionTimePostprocessing = t.RetentionTimePostprocessing()
	g.RetentionTimeParallelSeries = t.RetentionTimeParallelSeries()
	g.RetentionTimeMaxDeviation = optional(t.RetentionTimeMaxDeviation())
	g.SingleChainIdentification = t.SingleChainIdentification()
	g.MSIdentificationOrder = t.MSIdentificationOrder()
	g.EnforcePeakUnionTime = optional(t.EnforcePeakUnionTime())
	g.IgnorePositionForUnion = t.IgnorePositionForUnion()
	g.ClassSpecificMS1Cutoff = optional(t.ClassSpecificMS1Cutoff())
	g.AddChainPositions = t.AddChainPositions()
	g.IsobarSCExclusionRatio = optional(t.IsobarSCExclusionRatio())
	g.IsobarSCFarExclusionRatio = optional(t.IsobarSCFarExclusionRatio())
	g.IsobarRtDiff = optional(t.IsobarRtDiff())
	return g
}

func (t *Table) fractionSetting(key string) *Fraction {
	v, ok := t.fraction(key)
	if !ok {
		return nil
	}
	raw, _ := t.Raw(key)
	return &Fraction{Value: v, Text: raw}
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
