// Package settings implements the [GENERAL] section of a fragmentation rule file.
//
// Each line of the section is a key=value pair split at the first '='. The key
// must be one of the recognized settings; its value is validated immediately
// and stored verbatim. Typed getters convert the stored text on demand and
// fall back to documented defaults when a key is absent.
//
// Value forms:
//
//   - counts (AmountOfChains, AlkylChains, AlkenylChains, AddChainPositions):
//     non-negative integers
//   - name patterns (CAtomsFromName, DoubleBondsFromName): regular expressions
//     with a capture group
//   - fractions (BasePeakCutoff, ChainCutoff, SpectrumCoverage): "0.05", "5%"
//     or "50‰", always >= 0 and < 1
//   - flags: "true"/"yes" are true, anything else is false
//   - MSIdentificationOrder: MS1First, MSnFirst or MSnOnly
//
// Usage:
//
//	table := settings.NewTable()
//	if err := table.ParseLine("BasePeakCutoff=5%"); err != nil {
//	    return err
//	}
//	cutoff := table.BasePeakCutoff() // 0.05
//
// General is the value-object form used when writing rule files.
package settings
