package rules

import (
	"path/filepath"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
	"lipidhq/fragrules/pkg/rules/parser"
	"lipidhq/fragrules/pkg/rules/writer"
)

// FileSuffix is the conventional suffix of rule files.
const FileSuffix = ".frag.txt"

// ParseFile compiles one rule file with the default parser settings.
func ParseFile(path string) (*ast.RuleDocument, error) {
	return parser.NewParser().Parse(path)
}

// ParseBytes compiles rule-file content held in memory.
func ParseBytes(data []byte, source string) (*ast.RuleDocument, error) {
	return parser.NewParser().ParseBytes(data, source)
}

// Format returns the canonical text of a compiled document.
func Format(doc *ast.RuleDocument) ([]byte, error) {
	return writer.Format(writer.FromDocument(doc))
}

// WriteFile writes the canonical text of a compiled document to path.
func WriteFile(path string, doc *ast.RuleDocument) error {
	return writer.WriteFile(path, writer.FromDocument(doc))
}

// FileName is the metadata encoded in a rule file name,
// "<lipid class>_<adduct>.frag.txt".
type FileName struct {
	LipidClass string
	Adduct     string
}

// ParseFileName reads the lipid class and adduct from a rule file path.
// Names that do not follow the convention yield an empty FileName.
func ParseFileName(path string) FileName {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, FileSuffix) {
		return FileName{}
	}
	stem := strings.TrimSuffix(base, FileSuffix)
	i := strings.LastIndex(stem, "_")
	if i <= 0 || i == len(stem)-1 {
		return FileName{}
	}
	return FileName{LipidClass: stem[:i], Adduct: stem[i+1:]}
}

// IsRuleFile reports whether path carries the rule-file suffix.
func IsRuleFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), FileSuffix)
}

// String returns "<class>_<adduct>", or "" for an empty FileName.
func (f FileName) String() string {
	if f.LipidClass == "" {
		return ""
	}
	return f.LipidClass + "_" + f.Adduct
}
