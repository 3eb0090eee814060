package tracing

import (
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lipidhq/fragrules/pkg/rules"
	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
)

// Span attribute keys.
const (
	AttrSource          = "fragrules.source"
	AttrLipidClass      = "fragrules.lipid_class"
	AttrAdduct          = "fragrules.adduct"
	AttrHeadFragments   = "fragrules.fragments.head"
	AttrChainFragments  = "fragrules.fragments.chains"
	AttrIntensityRules  = "fragrules.intensity_rules"
	AttrRevision        = "fragrules.catalog.revision"
	AttrRevisionCreated = "fragrules.catalog.created"
	AttrErrorType       = "fragrules.error.type"
	AttrErrorLine       = "fragrules.error.line"
)

// SourceAttributes describes the rule file at path. The lipid class and
// adduct are included when the name follows <class>_<adduct>.frag.txt.
func SourceAttributes(path string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(AttrSource, filepath.Base(path))}
	if name := rules.ParseFileName(path); name.LipidClass != "" {
		attrs = append(attrs,
			attribute.String(AttrLipidClass, name.LipidClass),
			attribute.String(AttrAdduct, name.Adduct),
		)
	}
	return attrs
}

// SetDocumentAttributes records the size of a compiled document.
func SetDocumentAttributes(span trace.Span, doc *ast.RuleDocument) {
	if doc == nil {
		return
	}
	span.SetAttributes(
		attribute.Int(AttrHeadFragments, doc.HeadFragments().Len()),
		attribute.Int(AttrChainFragments, doc.ChainFragments().Len()),
		attribute.Int(AttrIntensityRules, doc.IntensityCount()),
	)
}

// SetRevisionAttributes records the catalog outcome of a compile.
func SetRevisionAttributes(span trace.Span, id string, created bool) {
	span.SetAttributes(
		attribute.String(AttrRevision, id),
		attribute.Bool(AttrRevisionCreated, created),
	)
}

// SetStatus marks span as failed with err, or as OK when err is nil. Rule
// errors also record their type and line.
func SetStatus(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	if e, ok := rulesErrors.As(err); ok {
		span.SetAttributes(attribute.String(AttrErrorType, string(e.Type)))
		if e.Location.Line > 0 {
			span.SetAttributes(attribute.Int(AttrErrorLine, e.Location.Line))
		}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
