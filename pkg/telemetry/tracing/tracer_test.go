package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"lipidhq/fragrules/pkg/config"
	"lipidhq/fragrules/pkg/rules"
	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
)

const pcH = `[GENERAL]
AmountOfChains=2
ChainLibrary=FA.xlsx
CAtomsFromName=.*?(\d+):\d+
DoubleBondsFromName=\d+:(\d+)
[HEAD]
!FRAGMENTS
Name=HG184 Formula=C5H15NO4P Charge=1 MSLevel=2 mandatory=true
!INTENSITIES
Equation=HG184>BASEPEAK*0.8
[CHAINS]
!FRAGMENTS
Name=FA1 Formula=$CHAIN Charge=1 MSLevel=2
`

func enabledConfig() *config.TracingConfig {
	cfg := config.Default().Tracing
	cfg.Enabled = true
	return &cfg
}

func newTestTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tracer, err := New(enabledConfig(), WithExporter(exp), WithVersion("test"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exp
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestNew(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) error = nil, want error")
	}

	disabled, err := New(&config.TracingConfig{})
	if err != nil {
		t.Fatalf("New(disabled) error = %v", err)
	}
	if disabled.Enabled() {
		t.Error("Enabled() = true for a disabled config")
	}
	ctx, span := disabled.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Errorf("TraceID() = %q for a no-op span, want empty", TraceID(ctx))
	}
	if err := disabled.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	bad := enabledConfig()
	bad.Sampler = "sometimes"
	if _, err := New(bad, WithExporter(tracetest.NewInMemoryExporter())); err == nil {
		t.Error("New() with an unknown sampler error = nil, want error")
	}
}

func TestNew_OTLPExporterIsLazy(t *testing.T) {
	cfg := enabledConfig()
	cfg.Endpoint = "127.0.0.1:1"
	cfg.Insecure = true

	tracer, err := New(cfg)
	if err != nil {
		t.Fatalf("New() with an unreachable collector error = %v", err)
	}
	if !tracer.Enabled() {
		t.Error("Enabled() = false, want true")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tracer.Shutdown(ctx)
}

func TestTracer_CompileSpans(t *testing.T) {
	tracer, exp := newTestTracer(t)

	doc, err := rules.ParseBytes([]byte(pcH), "PC_H.frag.txt")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	ctx, parent := tracer.Start(context.Background(), "fragrules.record",
		trace.WithAttributes(SourceAttributes("/rules/PC_H.frag.txt")...))
	if TraceID(ctx) == "" {
		t.Error("TraceID() is empty inside a sampled span")
	}
	_, child := tracer.Start(ctx, "fragrules.compile")
	SetDocumentAttributes(child, doc)
	SetStatus(child, nil)
	child.End()
	SetRevisionAttributes(parent, "rev-1", true)
	parent.End()

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}
	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("len(spans) = %d, want 2", len(spans))
	}

	compile, record := spans[0], spans[1]
	if compile.Parent.SpanID() != record.SpanContext.SpanID() {
		t.Error("compile span is not a child of the record span")
	}

	got := attrMap(record.Attributes)
	if got[AttrSource].AsString() != "PC_H.frag.txt" || got[AttrLipidClass].AsString() != "PC" || got[AttrAdduct].AsString() != "H" {
		t.Errorf("record attributes = %v", record.Attributes)
	}
	if !got[AttrRevisionCreated].AsBool() || got[AttrRevision].AsString() != "rev-1" {
		t.Errorf("revision attributes = %v", record.Attributes)
	}

	got = attrMap(compile.Attributes)
	if got[AttrHeadFragments].AsInt64() != 1 || got[AttrChainFragments].AsInt64() != 1 || got[AttrIntensityRules].AsInt64() != 1 {
		t.Errorf("document attributes = %v", compile.Attributes)
	}
	if compile.Status.Code != codes.Ok {
		t.Errorf("compile status = %v, want Ok", compile.Status.Code)
	}
}

func TestSetStatus_RuleError(t *testing.T) {
	tracer, exp := newTestTracer(t)

	_, err := rules.ParseBytes([]byte(pcH+"Name=FA1 Formula=$CHAIN\n"), "PC_H.frag.txt")
	if !rulesErrors.IsType(err, rulesErrors.ErrorTypeRules) {
		t.Fatalf("ParseBytes() error = %v, want a rules error", err)
	}

	_, span := tracer.Start(context.Background(), "fragrules.compile")
	SetStatus(span, err)
	span.End()
	_ = tracer.ForceFlush(context.Background())

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status.Code)
	}
	got := attrMap(s.Attributes)
	if got[AttrErrorType].AsString() != "rules" || got[AttrErrorLine].AsInt64() != 14 {
		t.Errorf("error attributes = %v, want rules error on line 14", s.Attributes)
	}
	if len(s.Events) == 0 {
		t.Error("error was not recorded as a span event")
	}
}

func TestSourceAttributes_UnconventionalName(t *testing.T) {
	attrs := SourceAttributes("notes.txt")
	if len(attrs) != 1 || attrs[0].Value.AsString() != "notes.txt" {
		t.Errorf("SourceAttributes() = %v, want only the source", attrs)
	}
}

func TestSetDocumentAttributes_NilDocument(t *testing.T) {
	tracer, exp := newTestTracer(t)
	_, span := tracer.Start(context.Background(), "fragrules.compile")
	SetDocumentAttributes(span, (*ast.RuleDocument)(nil))
	span.End()
	_ = tracer.ForceFlush(context.Background())

	if spans := exp.GetSpans(); len(spans) != 1 || len(spans[0].Attributes) != 0 {
		t.Errorf("spans = %v, want one span without attributes", spans)
	}
}

var errPlain = errors.New("disk full")

func TestSetStatus_PlainError(t *testing.T) {
	tracer, exp := newTestTracer(t)
	_, span := tracer.Start(context.Background(), "fragrules.catalog.put")
	SetStatus(span, errPlain)
	span.End()
	_ = tracer.ForceFlush(context.Background())

	s := exp.GetSpans()[0]
	if s.Status.Code != codes.Error || s.Status.Description != "disk full" {
		t.Errorf("status = %+v, want Error with description", s.Status)
	}
	if _, ok := attrMap(s.Attributes)[AttrErrorType]; ok {
		t.Error("plain error should not carry a rule error type")
	}
}
