package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paiml/bashrs-sub005/internal/config"
)

func TestPurify_InMemorySimpleCode(t *testing.T) {
	result := Purify(&Options{Code: "mkdir -p out\necho done\n"})

	if !result.Success {
		t.Fatalf("Expected successful purification, got diagnostics:\n%s", result.Diagnostics)
	}
	if result.Output != "#!/bin/sh\nmkdir -p out\necho done\n" {
		t.Errorf("unexpected output:\n%s", result.Output)
	}
	if result.Diagnostics != "" {
		t.Errorf("expected no diagnostics, got:\n%s", result.Diagnostics)
	}
}

func TestPurify_InMemoryWithSyntaxError(t *testing.T) {
	result := Purify(&Options{Code: "if true; then\n", Name: "broken.sh", Plain: true})

	if result.Success {
		t.Error("Expected failure for syntax error")
	}
	if !strings.Contains(result.Diagnostics, "error[P0001]") {
		t.Errorf("expected a parse diagnostic, got:\n%s", result.Diagnostics)
	}
}

func TestPurify_Unsupported(t *testing.T) {
	result := Purify(&Options{Code: "sleep 5 &\n", Plain: true})

	if result.Success {
		t.Error("Expected failure for a background job")
	}
	if !strings.Contains(result.Diagnostics, "error[P0002]") {
		t.Errorf("expected an unsupported-syntax diagnostic, got:\n%s", result.Diagnostics)
	}
}

func TestPurify_ReportsFindings(t *testing.T) {
	result := Purify(&Options{Code: "rm cache.db\nseed=$RANDOM\n", Plain: true})

	if !result.Success {
		t.Fatalf("warnings must not fail purification:\n%s", result.Diagnostics)
	}
	for _, want := range []string{"info[S0001]", "warning[S0002]"} {
		if !strings.Contains(result.Diagnostics, want) {
			t.Errorf("expected %s in diagnostics:\n%s", want, result.Diagnostics)
		}
	}
}

func TestPurify_WarningsAsErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TypeCheck.WarningsAsErrors = true

	result := Purify(&Options{
		Code:   "# @type port: int\nport=http\n",
		Config: cfg,
		Plain:  true,
	})

	if result.Success {
		t.Error("Expected failure when warnings are errors")
	}
	if result.Output != "" {
		t.Errorf("expected no output, got:\n%s", result.Output)
	}
	if !strings.Contains(result.Diagnostics, "error[T0001]") {
		t.Errorf("expected a type mismatch error, got:\n%s", result.Diagnostics)
	}
}

func TestPurify_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install.sh")
	if err := os.WriteFile(path, []byte("#!/usr/bin/env bash\nln -s a b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := Purify(&Options{EntryFile: path})
	if !result.Success {
		t.Fatalf("Expected success:\n%s", result.Diagnostics)
	}
	if result.Output != "#!/bin/sh\nln -sf a b\n" {
		t.Errorf("unexpected output:\n%s", result.Output)
	}
}

func TestPurify_FileNotFound(t *testing.T) {
	result := Purify(&Options{EntryFile: "/nonexistent/file.sh"})

	if result.Success {
		t.Error("Expected failure for missing file")
	}
	if !strings.Contains(result.Diagnostics, "File not found") {
		t.Errorf("unexpected diagnostics: %s", result.Diagnostics)
	}
}
