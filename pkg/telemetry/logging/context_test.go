package logging

import (
	"context"
	"testing"
)

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	if got := extractContextFields(ctx); len(got) != 0 {
		t.Errorf("extractContextFields(empty) = %v, want none", got)
	}

	ctx = WithSource(ctx, "TG_NH4.frag.txt")
	if got := GetSource(ctx); got != "TG_NH4.frag.txt" {
		t.Errorf("GetSource() = %q, want %q", got, "TG_NH4.frag.txt")
	}
	if got := GetRevision(ctx); got != "" {
		t.Errorf("GetRevision() = %q, want empty", got)
	}

	ctx = WithRevision(ctx, "abc")
	got := extractContextFields(ctx)
	want := []any{"source", "TG_NH4.frag.txt", "revision", "abc"}
	if len(got) != len(want) {
		t.Fatalf("extractContextFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
