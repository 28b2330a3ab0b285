package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nac-advisor/internal/decisions"
	"nac-advisor/internal/library"
	"nac-advisor/internal/llm"
	"nac-advisor/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:               "dev",
		LibrarySource:     "seed",
		LibraryKey:        "library/snapshot.yaml",
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		AIDefaultProvider: "openai",
		AIFallbackOrder:   config.DefaultFallbackOrder,
	}
}

func run(t *testing.T, cfg config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFromStdin(t *testing.T) {
	out, err := run(t, testConfig(t), `{"industry":"Healthcare","complianceFrameworks":["HIPAA"]}`, "analyze")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var path decisions.DecisionPath
	if err := json.Unmarshal([]byte(out), &path); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(path.Recommendations) == 0 {
		t.Fatalf("expected recommendations for Healthcare/HIPAA")
	}
}

func TestChecklistFromFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "context.json")
	if err := os.WriteFile(input, []byte(`{"industry":"Healthcare"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, testConfig(t), "", "checklist", "--input", input)
	if err != nil {
		t.Fatalf("checklist: %v", err)
	}
	var body struct {
		Phases []decisions.ChecklistPhase `json:"phases"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Phases) != 4 || body.Phases[0].Phase != decisions.PhasePlanning {
		t.Fatalf("unexpected phases: %+v", body.Phases)
	}
}

func TestLibraryPushThenAnalyzeFromFile(t *testing.T) {
	cfg := testConfig(t)
	seed, err := library.SeedReader()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap, err := seed.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	data, err := library.MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	src := filepath.Join(t.TempDir(), "library.yaml")
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, cfg, "", "library", "push", src)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if !strings.HasPrefix(out, "published library/snapshot.yaml") {
		t.Fatalf("unexpected output: %s", out)
	}

	cfg.LibrarySource = "file"
	out, err = run(t, cfg, "", "library", "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var summary library.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary != snap.Summarize() {
		t.Fatalf("summary mismatch: %+v vs %+v", summary, snap.Summarize())
	}
}

func TestLibraryPushRejectsInvalidSnapshot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(src, []byte("vendors:\n  - name: No ID\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := run(t, testConfig(t), "", "library", "push", src)
	if !errors.Is(err, library.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestCompleteWithoutCredentials(t *testing.T) {
	_, err := run(t, testConfig(t), "", "complete", "Which EAP method?")
	var missing *llm.MissingCredentialError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingCredentialError, got %v", err)
	}

	_, err = run(t, testConfig(t), "", "complete")
	if err == nil || !strings.Contains(err.Error(), "prompt is required") {
		t.Fatalf("expected prompt error, got %v", err)
	}
}
