// Package convert runs the Base64 string deobfuscator over a module image
// file and writes the rewritten module next to it.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/deepnoodle-ai/b64converter/deob"
	"github.com/deepnoodle-ai/b64converter/errz"
	"github.com/rs/zerolog"
)

// DefaultSuffix is appended to the input file name to form the output name.
const DefaultSuffix = "_converted"

// Config controls a conversion run.
type Config struct {
	// Suffix is appended to the input's base name, before the extension.
	Suffix string
	// Format is "auto" (same as input), "json" or "cbor".
	Format string
	// StrictUTF8 rejects payloads that are not valid UTF-8.
	StrictUTF8 bool
	// DryRun scans the module without writing the output file.
	DryRun bool
	// Logger receives scan events. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{Suffix: DefaultSuffix, Format: "auto"}
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

// outputFormat resolves the configured format against the input's format.
func (c Config) outputFormat(input bytecode.Format) (bytecode.Format, error) {
	switch strings.ToLower(c.Format) {
	case "", "auto":
		return input, nil
	default:
		return bytecode.ParseFormat(c.Format)
	}
}

// Report describes the outcome of a conversion run.
type Report struct {
	Input        string         `json:"input"`
	Output       string         `json:"output"`
	Format       string         `json:"format"`
	Replacements int            `json:"replacements"`
	Methods      int            `json:"methods_scanned"`
	Rejected     int            `json:"rejected"`
	Saved        bool           `json:"saved"`
	Stats        bytecode.Stats `json:"stats"`
	Patches      []deob.Patch   `json:"patches"`
}

// Summary returns the one-line replacement count shown to the user.
func (r *Report) Summary() string {
	if r.Replacements == 0 {
		return "No replacements found."
	}
	return fmt.Sprintf("Replacements: %d", r.Replacements)
}

// OutputPath derives the output path from the input path: same directory
// and extension, with suffix appended to the file name.
func OutputPath(input, suffix string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+suffix+ext)
}

// Run loads the module image at input, rewrites it and saves the result.
// The returned error is an *errz.Error whose kind selects the exit code.
// When saving fails the report is still returned alongside the error.
func Run(cfg Config, input string) (*Report, error) {
	log := cfg.logger()
	if strings.TrimSpace(input) == "" {
		return nil, errz.Usagef("missing module path")
	}
	if _, err := cfg.outputFormat(bytecode.FormatJSON); err != nil {
		return nil, errz.Usagef("%v", err)
	}
	path, err := filepath.Abs(input)
	if err != nil {
		return nil, errz.Usagef("%s: %v", input, err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errz.Usagef("%s: not an existing file", input)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errz.Load(path, err)
	}
	m, err := bytecode.Unmarshal(data)
	if err != nil {
		return nil, errz.Load(path, err)
	}
	format, _ := cfg.outputFormat(bytecode.DetectFormat(data))
	log.Debug().
		Str("path", path).
		Stringer("format", bytecode.DetectFormat(data)).
		Int("types", len(m.GetTypes())).
		Msg("module loaded")

	result := deob.NewScanner(
		deob.WithStrictUTF8(cfg.StrictUTF8),
		deob.WithLogger(log),
	).ScanModule(m)

	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	report := &Report{
		Input:        path,
		Output:       OutputPath(path, suffix),
		Format:       format.String(),
		Replacements: result.Count(),
		Methods:      result.Methods,
		Rejected:     result.Rejected,
		Stats:        m.Stats(),
		Patches:      result.Patches,
	}
	if cfg.DryRun {
		return report, nil
	}

	out, err := bytecode.Marshal(m, format)
	if err != nil {
		return report, errz.Write(report.Output, err)
	}
	if err := os.WriteFile(report.Output, out, 0o644); err != nil {
		return report, errz.Write(report.Output, err)
	}
	report.Saved = true
	log.Info().Str("path", report.Output).Msg("module saved")
	return report, nil
}
