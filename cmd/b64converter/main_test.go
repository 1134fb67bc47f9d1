package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func sampleModule() *bytecode.Module {
	m := bytecode.NewModule("Sample.exe")
	program := m.AddType("Sample", "Program")
	program.AddMethod("Main", bytecode.NewBody(
		bytecode.Ldstr("SGVsbG8="),
		bytecode.Call("System.Convert", "FromBase64String"),
		bytecode.Call("System.Text.Encoding", "get_UTF8"),
		bytecode.Callvirt("System.Text.Encoding", "GetString"),
		bytecode.Call("System.Console", "WriteLine"),
		bytecode.Ret(),
	))
	return m
}

func plainModule() *bytecode.Module {
	m := bytecode.NewModule("Plain.exe")
	m.AddType("Sample", "Program").AddMethod("Main", bytecode.NewBody(
		bytecode.Ldstr("Hello"),
		bytecode.Call("System.Console", "WriteLine"),
		bytecode.Ret(),
	))
	return m
}

func writeImage(t *testing.T, name string, m *bytecode.Module) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	data, err := bytecode.Marshal(m, bytecode.FormatJSON)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestConvert(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	code, stdout, stderr := run(path)
	require.Equal(t, 0, code, stderr)

	out := filepath.Join(filepath.Dir(path), "app_converted.json")
	require.Contains(t, stdout, "Replacements: 1\n")
	require.Contains(t, stdout, "Saved: "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	m, err := bytecode.Unmarshal(data)
	require.NoError(t, err)
	md, ok := m.FindMethod("Sample.Program::Main")
	require.True(t, ok)
	require.Equal(t, bytecode.StringOperand("Hello"), md.Body.Instructions[0].Operand)
}

func TestConvertNoReplacements(t *testing.T) {
	path := writeImage(t, "plain.json", plainModule())
	code, stdout, _ := run(path)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "No replacements found.")
	require.FileExists(t, filepath.Join(filepath.Dir(path), "plain_converted.json"))
}

func TestConvertDryRun(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	code, stdout, _ := run("--dry-run", path)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Replacements: 1")
	require.Contains(t, stdout, "Not written: ")
	require.NoFileExists(t, filepath.Join(filepath.Dir(path), "app_converted.json"))
}

func TestConvertJSONReport(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	code, stdout, _ := run("--no-color", "-o", "json", "--suffix", "_clean", path)
	require.Equal(t, 0, code)

	var report struct {
		Replacements int    `json:"replacements"`
		Output       string `json:"output"`
		Saved        bool   `json:"saved"`
		Patches      []struct {
			Method  string `json:"method"`
			Decoded string `json:"decoded"`
		} `json:"patches"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Equal(t, 1, report.Replacements)
	require.True(t, report.Saved)
	require.Equal(t, filepath.Join(filepath.Dir(path), "app_clean.json"), report.Output)
	require.Len(t, report.Patches, 1)
	require.Equal(t, "Hello", report.Patches[0].Decoded)
}

func TestUsageErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"two arguments", []string{"a.json", "b.json"}},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.json")}},
		{"directory", []string{t.TempDir()}},
		{"unknown flag", []string{"--bogus", "a.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(tt.args...)
			require.Equal(t, 1, code)
			require.Empty(t, stdout)
			require.Contains(t, stderr, usageLine)
		})
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	code, _, stderr := run("-o", "xml", path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "unknown output format: xml")
	require.NoFileExists(t, filepath.Join(filepath.Dir(path), "app_converted.json"))
}

func TestLoadError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	code, stdout, stderr := run(path)
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "load error")
	require.NotContains(t, stderr, usageLine)
}

func TestWriteError(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	// A directory in place of the output file makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(filepath.Dir(path), "app_converted.json"), 0o755))
	code, stdout, stderr := run(path)
	require.Equal(t, 2, code)
	require.Contains(t, stdout, "Replacements: 1")
	require.Contains(t, stderr, "write error")
}

func TestConfigFile(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("suffix: _fromconfig\n"), 0o644))
	code, stdout, stderr := run("--config", cfg, path)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "app_fromconfig.json")
}

func TestMissingConfigFile(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	code, _, stderr := run("--config", filepath.Join(t.TempDir(), "nope.yaml"), path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "config:")
}

func TestEnvironmentOverride(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	t.Setenv("B64C_SUFFIX", "_env")
	code, stdout, _ := run(path)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "app_env.json")
}

func TestDis(t *testing.T) {
	path := writeImage(t, "app.json", sampleModule())
	code, stdout, stderr := run("dis", path)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, ".method Sample.Program::Main (6 instructions)")
	require.Contains(t, stdout, `"SGVsbG8="`)
	require.Contains(t, stdout, "System.Convert::FromBase64String")

	code, stdout, _ = run("dis", "--method", "Sample.Program::Main", path)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "ldstr")

	code, _, stderr = run("dis", "--method", "Sample.Program::Missing", path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, `method "Sample.Program::Missing" not found`)

	code, _, stderr = run("dis", "--method", "Sample.Program::Mian", path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "did you mean Sample.Program::Main?")
}

func TestVersion(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	code, stdout, _ := run("version")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "b64converter dev")

	code, stdout, _ = run("version", "-o", "json")
	require.Equal(t, 0, code)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	require.Equal(t, "dev", info["version"])
}
