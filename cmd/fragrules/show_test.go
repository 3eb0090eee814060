package main

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"lipidhq/fragrules/pkg/rules/ast"
)

func TestShowRulesText(t *testing.T) {
	useTestConfig(t)
	showFlags.format = "text"
	cmd, out := newTestCommand(t)

	if err := showRules(cmd, []string{validFile}); err != nil {
		t.Fatalf("showRules() returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"(class PC, adduct H)",
		"[GENERAL]",
		"AmountOfChains",
		"[HEAD] fragments",
		"HG184",
		"[CHAINS] fragments",
		"[POSITION] intensity rules",
		"(mandatory)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestShowRulesJSON(t *testing.T) {
	useTestConfig(t)
	showFlags.format = "json"
	cmd, out := newTestCommand(t)

	if err := showRules(cmd, []string{validFile}); err != nil {
		t.Fatalf("showRules() returned error: %v", err)
	}

	var view ast.DocumentView
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(view.HeadFragments) != 3 || len(view.ChainFragments) != 2 {
		t.Errorf("fragments = %d head, %d chain, want 3 and 2", len(view.HeadFragments), len(view.ChainFragments))
	}
}

func TestShowRulesYAML(t *testing.T) {
	useTestConfig(t)
	showFlags.format = "yaml"
	cmd, out := newTestCommand(t)

	if err := showRules(cmd, []string{validFile}); err != nil {
		t.Fatalf("showRules() returned error: %v", err)
	}

	var view map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if view["source"] != validFile {
		t.Errorf("source = %v, want %q", view["source"], validFile)
	}
}

func TestShowRulesInvalidFile(t *testing.T) {
	useTestConfig(t)
	showFlags.format = "text"
	cmd, _ := newTestCommand(t)

	if err := showRules(cmd, []string{invalidFile}); err == nil {
		t.Error("showRules() with an invalid file should return error")
	}
}
