package settings

// Recognized [GENERAL] keys.
const (
	KeyAmountOfChains              = "AmountOfChains"
	KeyChainLibrary                = "ChainLibrary"
	KeyCAtomsFromName              = "CAtomsFromName"
	KeyDoubleBondsFromName         = "DoubleBondsFromName"
	KeyAlkylChains                 = "AlkylChains"
	KeyAlkenylChains               = "AlkenylChains"
	KeyBasePeakCutoff              = "BasePeakCutoff"
	KeyChainCutoff                 = "ChainCutoff"
	KeySpectrumCoverage            = "SpectrumCoverage"
	KeyRetentionTimePostprocessing = "RetentionTimePostprocessing"
	KeyRetentionTimeParallelSeries = "RetentionTimeParallelSeries"
	KeyRetentionTimeMaxDeviation   = "RetentionTimeMaxDeviation"
	KeySingleChainIdentification   = "SingleChainIdentification"
	KeyMSIdentificationOrder       = "MSIdentificationOrder"
	KeyEnforcePeakUnionTime        = "EnforcePeakUnionTime"
	KeyIgnorePositionForUnion      = "IgnorePositionForUnion"
	KeyClassSpecificMS1Cutoff      = "ClassSpecificMS1Cutoff"
	KeyAddChainPositions           = "AddChainPositions"
	KeyIsobarSCExclusionRatio      = "IsobarSCExclusionRatio"
	KeyIsobarSCFarExclusionRatio   = "IsobarSCFarExclusionRatio"
	KeyIsobarRtDiff                = "IsobarRtDiff"
)

type valueKind int

const (
	kindCount valueKind = iota
	kindChainLibrary
	kindPattern
	kindFraction
	kindFlag
	kindFloat
	kindOrder
)

type keySpec struct {
	key  string
	kind valueKind
}

// specs is the key registry in the order the keys are written back.
var specs = []keySpec{
	{KeyAmountOfChains, kindCount},
	{KeyChainLibrary, kindChainLibrary},
	{KeyCAtomsFromName, kindPattern},
	{KeyDoubleBondsFromName, kindPattern},
	{KeyAlkylChains, kindCount},
	{KeyAlkenylChains, kindCount},
	{KeyBasePeakCutoff, kindFraction},
	{KeyChainCutoff, kindFraction},
	{KeySpectrumCoverage, kindFraction},
	{KeyRetentionTimePostprocessing, kindFlag},
	{KeyRetentionTimeParallelSeries, kindFlag},
	{KeyRetentionTimeMaxDeviation, kindFloat},
	{KeySingleChainIdentification, kindFlag},
	{KeyMSIdentificationOrder, kindOrder},
	{KeyEnforcePeakUnionTime, kindFloat},
	{KeyIgnorePositionForUnion, kindFlag},
	{KeyClassSpecificMS1Cutoff, kindFloat},
	{KeyAddChainPositions, kindCount},
	{KeyIsobarSCExclusionRatio, kindFloat},
	{KeyIsobarSCFarExclusionRatio, kindFloat},
	{KeyIsobarRtDiff, kindFloat},
}

// RequiredKeys must be present in every rule file.
var RequiredKeys = []string{
	KeyAmountOfChains,
	KeyChainLibrary,
	KeyCAtomsFromName,
	KeyDoubleBondsFromName,
}

// Keys returns every recognized key in canonical order.
func Keys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.key
	}
	return keys
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// IdentificationOrder is the order in which MS1 and MSn evidence is used.
// The ordinal values are part of the contract with the identification engine.
type IdentificationOrder int

const (
	OrderMS1First IdentificationOrder = 0
	OrderMSnFirst IdentificationOrder = 1
	OrderMSnOnly  IdentificationOrder = 2
)

var orderLiterals = map[IdentificationOrder]string{
	OrderMS1First: "MS1First",
	OrderMSnFirst: "MSnFirst",
	OrderMSnOnly:  "MSnOnly",
}

// String returns the rule-file literal of the order.
func (o IdentificationOrder) String() string {
	if s, ok := orderLiterals[o]; ok {
		return s
	}
	return "MS1First"
}

// ParseIdentificationOrder maps one of the three literals to its ordinal.
func ParseIdentificationOrder(s string) (IdentificationOrder, bool) {
	for o, lit := range orderLiterals {
		if lit == s {
			return o, true
		}
	}
	return OrderMS1First, false
}
