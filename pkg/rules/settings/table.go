package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"lipidhq/fragrules/pkg/rules/chainlib"
)

// ErrFrozen is returned by Set once the table belongs to a finished document.
var ErrFrozen = errors.New("general settings are read only")

// UnknownKeyError reports a key that is not part of the [GENERAL] vocabulary.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown [GENERAL] setting %q", e.Key)
}

// Table stores the raw [GENERAL] values in declaration order. Values are
// validated on Set and typed on demand by the getters.
type Table struct {
	mu        sync.RWMutex
	values    map[string]string
	order     []string
	frozen    bool
	chainLibs *chainlib.Authority
}

// NewTable returns an empty table using the default chain-library suffixes.
func NewTable() *Table {
	return &Table{
		values:    make(map[string]string),
		chainLibs: chainlib.Default(),
	}
}

// UseChainLibraries replaces the chain-library authority used by Set.
func (t *Table) UseChainLibraries(a *chainlib.Authority) {
	if a == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chainLibs = a
}

// ParseLine splits "key=value" at the first '=' and stores it.
func (t *Table) ParseLine(line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("[GENERAL] entry %q is not of the form key=value", line)
	}
	return t.Set(strings.TrimSpace(key), strings.TrimSpace(value))
}

// Set validates value for key and stores the original text.
func (t *Table) Set(key, value string) error {
	spec, ok := lookupSpec(key)
	if !ok {
		return &UnknownKeyError{Key: key}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return ErrFrozen
	}
	if _, dup := t.values[key]; dup {
		return fmt.Errorf("[GENERAL] setting %s is declared more than once", key)
	}
	if err := t.check(spec, value); err != nil {
		return err
	}
	t.values[key] = value
	t.order = append(t.order, key)
	return nil
}

func (t *Table) check(spec keySpec, value string) error {
	var err error
	switch spec.kind {
	case kindCount:
		_, err = ParseCount(spec.key, value)
	case kindChainLibrary:
		err = t.chainLibs.Validate(value)
	case kindPattern:
		_, err = ParsePattern(spec.key, value)
	case kindFraction:
		_, err = ParseFraction(spec.key, value)
	case kindFloat:
		_, err = ParseFloat(spec.key, value)
	case kindOrder:
		_, err = ParseOrder(spec.key, value)
	case kindFlag:
		// any text is a valid flag
	}
	return err
}

// Freeze makes the table read only.
func (t *Table) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Raw returns the text stored for key.
func (t *Table) Raw(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether key was declared.
func (t *Table) Has(key string) bool {
	_, ok := t.Raw(key)
	return ok
}

// Keys returns the declared keys in declaration order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Map returns a copy of the raw values.
func (t *Table) Map() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := make(map[string]string, len(t.values))
	for k, v := range t.values {
		m[k] = v
	}
	return m
}

// Missing returns the required keys that were not declared.
func (t *Table) Missing() []string {
	var missing []string
	for _, key := range RequiredKeys {
		if !t.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

func (t *Table) count(key string, def int) int {
	raw, ok := t.Raw(key)
	if !ok {
		return def
	}
	n, err := ParseCount(key, raw)
	if err != nil {
		return def
	}
	return n
}

func (t *Table) fraction(key string) (float64, bool) {
	raw, ok := t.Raw(key)
	if !ok {
		return 0, false
	}
	f, err := ParseFraction(key, raw)
	return f, err == nil
}

func (t *Table) float(key string) (float64, bool) {
	raw, ok := t.Raw(key)
	if !ok {
		return 0, false
	}
	f, err := ParseFloat(key, raw)
	return f, err == nil
}

func (t *Table) flag(key string, def bool) bool {
	raw, ok := t.Raw(key)
	if !ok {
		return def
	}
	return ParseFlag(raw)
}

func (t *Table) pattern(key string) *regexp.Regexp {
	raw, ok := t.Raw(key)
	if !ok {
		return nil
	}
	re, err := ParsePattern(key, raw)
	if err != nil {
		return nil
	}
	return re
}

// AmountOfChains returns the declared total number of chains (0 if absent).
func (t *Table) AmountOfChains() int { return t.count(KeyAmountOfChains, 0) }

// AlkylChains returns the declared number of alkyl chains (default 0).
func (t *Table) AlkylChains() int { return t.count(KeyAlkylChains, 0) }

// AlkenylChains returns the declared number of alkenyl chains (default 0).
func (t *Table) AlkenylChains() int { return t.count(KeyAlkenylChains, 0) }

// AcylChains returns the chains left for acyl chains after alkyl and alkenyl.
func (t *Table) AcylChains() int {
	return t.AmountOfChains() - t.AlkylChains() - t.AlkenylChains()
}

// Quota returns the number of chains available for one chain type.
func (t *Table) Quota(kind string) int {
	switch kind {
	case "acyl":
		return t.AcylChains()
	case "alkyl":
		return t.AlkylChains()
	case "alkenyl":
		return t.AlkenylChains()
	}
	return 0
}

// ChainLibrary returns the chain-library file name.
func (t *Table) ChainLibrary() string {
	v, _ := t.Raw(KeyChainLibrary)
	return v
}

// CAtomsFromName returns the pattern extracting carbon atoms from a chain name.
func (t *Table) CAtomsFromName() *regexp.Regexp { return t.pattern(KeyCAtomsFromName) }

// DoubleBondsFromName returns the pattern extracting double bonds from a chain name.
func (t *Table) DoubleBondsFromName() *regexp.Regexp { return t.pattern(KeyDoubleBondsFromName) }

// BasePeakCutoff returns the relative base-peak cutoff (default 0).
func (t *Table) BasePeakCutoff() float64 {
	f, _ := t.fraction(KeyBasePeakCutoff)
	return f
}

// ChainCutoff returns the chain cutoff; ok is false when the global default applies.
func (t *Table) ChainCutoff() (value float64, ok bool) { return t.fraction(KeyChainCutoff) }

// SpectrumCoverage returns the required spectrum coverage; ok is false when unset.
func (t *Table) SpectrumCoverage() (value float64, ok bool) {
	return t.fraction(KeySpectrumCoverage)
}

// RetentionTimePostprocessing reports whether RT postprocessing is on (default true).
func (t *Table) RetentionTimePostprocessing() bool {
	return t.flag(KeyRetentionTimePostprocessing, true)
}

// RetentionTimeParallelSeries reports whether parallel RT series are allowed (default false).
func (t *Table) RetentionTimeParallelSeries() bool {
	return t.flag(KeyRetentionTimeParallelSeries, false)
}

// RetentionTimeMaxDeviation returns the RT deviation limit; ok is false when unset.
func (t *Table) RetentionTimeMaxDeviation() (value float64, ok bool) {
	return t.float(KeyRetentionTimeMaxDeviation)
}

// SingleChainIdentification reports whether a single chain suffices (default false).
func (t *Table) SingleChainIdentification() bool {
	return t.flag(KeySingleChainIdentification, false)
}

// MSIdentificationOrder returns the identification order (default MS1First).
func (t *Table) MSIdentificationOrder() IdentificationOrder {
	raw, ok := t.Raw(KeyMSIdentificationOrder)
	if !ok {
		return OrderMS1First
	}
	o, _ := ParseIdentificationOrder(raw)
	return o
}

// EnforcePeakUnionTime returns the peak-union time; ok is false when unset.
func (t *Table) EnforcePeakUnionTime() (value float64, ok bool) {
	return t.float(KeyEnforcePeakUnionTime)
}

// IgnorePositionForUnion reports whether positions are ignored for unions (default false).
func (t *Table) IgnorePositionForUnion() bool {
	return t.flag(KeyIgnorePositionForUnion, false)
}

// ClassSpecificMS1Cutoff returns the class MS1 cutoff; ok is false when unset.
func (t *Table) ClassSpecificMS1Cutoff() (value float64, ok bool) {
	return t.float(KeyClassSpecificMS1Cutoff)
}

// AddChainPositions returns the number of extra positions (default 0).
func (t *Table) AddChainPositions() int { return t.count(KeyAddChainPositions, 0) }

// MaxChainPositions is the highest legal position index in [POSITION] equations.
func (t *Table) MaxChainPositions() int {
	return t.AmountOfChains() + t.AddChainPositions()
}

// IsobarSCExclusionRatio returns the isobar exclusion ratio; ok is false when unset.
func (t *Table) IsobarSCExclusionRatio() (value float64, ok bool) {
	return t.float(KeyIsobarSCExclusionRatio)
}

// IsobarSCFarExclusionRatio returns the far isobar exclusion ratio; ok is false when unset.
func (t *Table) IsobarSCFarExclusionRatio() (value float64, ok bool) {
	return t.float(KeyIsobarSCFarExclusionRatio)
}

// IsobarRtDiff returns the isobar RT difference; ok is false when unset.
func (t *Table) IsobarRtDiff() (value float64, ok bool) {
	return t.float(KeyIsobarRtDiff)
}
