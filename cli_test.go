package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/config"
	"github.com/paiml/bashrs-sub005/internal/frontend/bashparse"
)

func setup(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	logger = zap.NewNop()
	colors.Enabled = false
	t.Cleanup(func() {
		outPath, watchMode, warningsAsErrors = "", false, false
		colors.Enabled = true
	})
}

func testCmd(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())
	return cmd, &stdout, &stderr
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPurifyStdin(t *testing.T) {
	setup(t)
	cmd, stdout, stderr := testCmd("#!/bin/bash\nmkdir build\n")

	require.NoError(t, runPurify(cmd, nil))
	assert.Equal(t, "#!/bin/sh\nmkdir -p build\n", stdout.String())
	assert.Contains(t, stderr.String(), "info[S0001]")
}

func TestPurifyFileToOutput(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	in := writeScript(t, dir, "clean.sh", "rm cache.db\n")
	outPath = filepath.Join(dir, "clean.purified.sh")

	cmd, stdout, _ := testCmd("")
	require.NoError(t, runPurify(cmd, []string{in}))
	assert.Empty(t, stdout.String())

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nrm -f cache.db\n", string(got))
}

func TestPurifySeveralFiles(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	a := writeScript(t, dir, "a.sh", "mkdir a\n")
	b := writeScript(t, dir, "b.sh", "ln -s a b\n")

	cmd, _, _ := testCmd("")
	assert.EqualError(t, runPurify(cmd, []string{a, b}), "several inputs need --output DIR")

	outPath = filepath.Join(dir, "out")
	require.NoError(t, runPurify(cmd, []string{a, b}))

	gotA, err := os.ReadFile(filepath.Join(outPath, "a.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nmkdir -p a\n", string(gotA))
	gotB, err := os.ReadFile(filepath.Join(outPath, "b.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nln -sf a b\n", string(gotB))
}

func TestPurifyRefusesToOverwriteInput(t *testing.T) {
	setup(t)
	in := writeScript(t, t.TempDir(), "x.sh", "echo hi\n")
	outPath = in

	cmd, _, _ := testCmd("")
	err := runPurify(cmd, []string{in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would overwrite the input")
}

func TestPurifyReportsDiagnostics(t *testing.T) {
	setup(t)
	cmd, stdout, stderr := testCmd("cat <<EOF\nhi\nEOF\n")

	err := runPurify(cmd, nil)
	assert.ErrorIs(t, err, errFailed)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "P0002")
}

func TestPurifyWatchNeedsFiles(t *testing.T) {
	setup(t)
	watchMode = true
	cmd, _, _ := testCmd("echo hi\n")
	assert.Error(t, runPurify(cmd, nil))
}

func TestCheck(t *testing.T) {
	const mismatch = "# @type port: int\nport=http\n"

	tests := []struct {
		name       string
		src        string
		werror     bool
		wantErr    bool
		wantStdout string
		wantStderr string
	}{
		{"clean", "x=1\necho \"$x\"\n", false, false, "<stdin>: ok", ""},
		{"warning only", mismatch, false, false, "", "T0001"},
		{"warning as error", mismatch, true, true, "", "T0001"},
		{"syntax error", "if true; then\n", false, true, "", "P0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			warningsAsErrors = tt.werror
			cmd, stdout, stderr := testCmd(tt.src)

			err := runCheck(cmd, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, errFailed)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

func TestCheckMissingFile(t *testing.T) {
	setup(t)
	cmd, _, stderr := testCmd("")

	err := runCheck(cmd, []string{filepath.Join(t.TempDir(), "missing.sh")})
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stderr.String(), "failed to read")
}

// scripted feeds fixed lines to the REPL session
type scripted struct {
	lines   []string
	history []string
}

func (s *scripted) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scripted) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func TestReplSession(t *testing.T) {
	setup(t)
	var out, errOut bytes.Buffer
	s := &replSession{pipeline: newPipeline(), parser: bashparse.New(), out: &out, errOut: &errOut}

	r := &scripted{lines: []string{
		"if true; then",
		"  echo \"$HOME\"",
		"fi",
		":check",
		"x=1",
		":bogus",
		":quit",
		"echo never",
	}}
	s.loop(context.Background(), r)

	assert.Contains(t, out.String(), "if true; then\n")
	assert.Contains(t, out.String(), "echo \"$HOME\"\nfi\n")
	assert.NotContains(t, out.String(), "#!/bin/sh")
	assert.Contains(t, out.String(), "mode: check")
	assert.Contains(t, out.String(), "ok")
	assert.Contains(t, out.String(), "unknown command")
	assert.NotContains(t, out.String(), "never")
	assert.Equal(t, []string{"echo never"}, r.lines)
	assert.Contains(t, r.history, "fi")
	assert.Empty(t, errOut.String())
}

func TestReplEmptyLineSubmits(t *testing.T) {
	setup(t)
	var out, errOut bytes.Buffer
	s := &replSession{pipeline: newPipeline(), parser: bashparse.New(), out: &out, errOut: &errOut}

	code, ok := s.read(context.Background(), &scripted{lines: []string{"if true; then", ""}})
	assert.True(t, ok)
	assert.Equal(t, "if true; then", code)

	_, ok = s.read(context.Background(), &scripted{})
	assert.False(t, ok)
}

func TestVersion(t *testing.T) {
	cmd, stdout, _ := testCmd("")
	versionCmd.Run(cmd, nil)
	assert.Equal(t, "shpure version 0.1.0\n", stdout.String())
}

func TestRootLoadsConfig(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	path := writeScript(t, dir, config.FileName, "type_check:\n  warnings_as_errors: true\n")

	rootCmd.SetArgs([]string{"--config", path, "--strict", "version"})
	rootCmd.SetOut(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		cfgPath, strict = config.FileName, false
	})

	require.NoError(t, rootCmd.Execute())
	assert.True(t, cfg.TypeCheck.Strict)
	assert.True(t, cfg.TypeCheck.WarningsAsErrors)
	assert.NotNil(t, logger)
}
