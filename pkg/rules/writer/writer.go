// Package writer serializes rule documents back into the rule-file format.
//
// The output is read back by the parser in either tokenization mode: tokens
// on fragment and intensity lines are separated by a single tab.
package writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"lipidhq/fragrules/pkg/rules/ast"
	"lipidhq/fragrules/pkg/rules/settings"
)

// Model is everything the writer needs. It does not have to come from a
// parse; any values that describe a valid document will do.
type Model struct {
	General             settings.General
	HeadFragments       []ast.FragmentRule
	ChainFragments      []ast.FragmentRule
	HeadIntensities     []ast.IntensityRule
	ChainIntensities    []ast.IntensityRule
	PositionIntensities []ast.IntensityRule
}

// FromDocument copies a compiled document into a Model.
func FromDocument(doc *ast.RuleDocument) Model {
	return Model{
		General:             doc.General().General(),
		HeadFragments:       doc.HeadFragments().All(),
		ChainFragments:      doc.ChainFragments().All(),
		HeadIntensities:     doc.HeadIntensities(),
		ChainIntensities:    doc.ChainIntensities(),
		PositionIntensities: doc.PositionIntensities(),
	}
}

// Write emits m in the order GENERAL, HEAD, CHAINS, POSITION.
func Write(w io.Writer, m Model) error {
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	ew.line(ast.SectionGeneral.Header())
	for _, e := range m.General.Entries() {
		ew.line(e.Key + "=" + e.Value)
	}

	if len(m.HeadFragments) > 0 || len(m.HeadIntensities) > 0 {
		ew.section(ast.SectionHead, m.HeadFragments, m.HeadIntensities)
	}
	if len(m.ChainFragments) > 0 || len(m.ChainIntensities) > 0 {
		ew.section(ast.SectionChains, m.ChainFragments, m.ChainIntensities)
	}
	if len(m.ChainFragments) > 0 && len(m.PositionIntensities) > 0 {
		ew.section(ast.SectionPosition, nil, m.PositionIntensities)
	}

	if ew.err != nil {
		return fmt.Errorf("write rule document: %w", ew.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write rule document: %w", err)
	}
	return nil
}

// Format returns the serialized form of m.
func Format(m Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes m to path. The file is replaced atomically.
func WriteFile(path string, m Model) error {
	data, err := Format(m)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// FragmentLine renders one fragment definition.
func FragmentLine(f ast.FragmentRule) string {
	charge, msLevel := f.Charge, f.MSLevel
	if charge == 0 {
		charge = ast.DefaultCharge
	}
	if msLevel == 0 {
		msLevel = ast.DefaultMSLevel
	}
	return "Name=" + f.Name +
		"\tFormula=" + f.Formula +
		"\tCharge=" + strconv.Itoa(charge) +
		"\tMSLevel=" + strconv.Itoa(msLevel) +
		"\tmandatory=" + f.MandatoryLiteral()
}

// IntensityLine renders one intensity rule.
func IntensityLine(r ast.IntensityRule) string {
	return "Equation=" + r.Equation() + "\tmandatory=" + strconv.FormatBool(r.Mandatory)
}

// errWriter keeps the first write error so the section code stays linear.
type errWriter struct {
	w   *bufio.Writer
	err error
}

func (ew *errWriter) line(s string) {
	if ew.err != nil {
		return
	}
	if _, err := ew.w.WriteString(s); err != nil {
		ew.err = err
		return
	}
	ew.err = ew.w.WriteByte('\n')
}

func (ew *errWriter) section(sec ast.Section, fragments []ast.FragmentRule, rules []ast.IntensityRule) {
	ew.line("")
	ew.line(sec.Header())
	if len(fragments) > 0 {
		ew.line(ast.FragmentsMarker)
		for _, f := range fragments {
			ew.line(FragmentLine(f))
		}
	}
	if len(rules) > 0 {
		ew.line(ast.IntensitiesMarker)
		for i := range rules {
			ew.line(IntensityLine(rules[i]))
		}
	}
}
