package ast

// Setting is one [GENERAL] entry as written in the file.
type Setting struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// DocumentView is a plain snapshot of a RuleDocument for encoding as JSON
// or YAML.
type DocumentView struct {
	Source              string          `json:"source" yaml:"source"`
	General             []Setting       `json:"general" yaml:"general"`
	HeadFragments       []FragmentRule  `json:"head_fragments" yaml:"head_fragments"`
	ChainFragments      []FragmentRule  `json:"chain_fragments" yaml:"chain_fragments"`
	HeadIntensities     []IntensityRule `json:"head_intensities" yaml:"head_intensities"`
	ChainIntensities    []IntensityRule `json:"chain_intensities" yaml:"chain_intensities"`
	PositionIntensities []IntensityRule `json:"position_intensities" yaml:"position_intensities"`
}

// View returns a snapshot of the document. Settings keep declaration order.
func (d *RuleDocument) View() DocumentView {
	v := DocumentView{
		Source:              d.source,
		HeadFragments:       d.head.All(),
		ChainFragments:      d.chains.All(),
		HeadIntensities:     d.HeadIntensities(),
		ChainIntensities:    d.ChainIntensities(),
		PositionIntensities: d.PositionIntensities(),
	}
	for _, key := range d.general.Keys() {
		value, _ := d.general.Raw(key)
		v.General = append(v.General, Setting{Key: key, Value: value})
	}
	return v
}
