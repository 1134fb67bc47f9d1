package deob

import (
	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/rs/zerolog"
)

// ScanOption describes a function used to configure a Scanner.
type ScanOption func(*Scanner)

// WithStrictUTF8 rejects decoded payloads that are not valid UTF-8.
func WithStrictUTF8(strict bool) ScanOption {
	return func(s *Scanner) {
		s.opts.StrictUTF8 = strict
	}
}

// WithLogger sets the logger used for per-patch and per-rejection events.
func WithLogger(log zerolog.Logger) ScanOption {
	return func(s *Scanner) {
		s.log = log
	}
}

// Scanner rewrites decode sequences across a whole module. It is not safe
// for concurrent use; a module is scanned by one goroutine.
type Scanner struct {
	opts Options
	log  zerolog.Logger
}

// NewScanner returns a Scanner configured by the given options.
func NewScanner(options ...ScanOption) *Scanner {
	s := &Scanner{log: zerolog.Nop()}
	for _, o := range options {
		o(s)
	}
	return s
}

// Result summarizes a module scan.
type Result struct {
	Patches  []Patch `json:"patches"`
	Methods  int     `json:"methods_scanned"`
	Rejected int     `json:"rejected"`
}

// Count returns the number of patches applied.
func (r *Result) Count() int {
	return len(r.Patches)
}

// ScanModule rewrites every method body of every type in the module, nested
// types included, and returns what was patched.
func (s *Scanner) ScanModule(m *bytecode.Module) *Result {
	result := &Result{Patches: []Patch{}}
	for _, t := range m.GetTypes() {
		for _, md := range t.Methods {
			patches, rejected, scanned := s.scanMethod(md)
			if !scanned {
				continue
			}
			result.Methods++
			result.Rejected += rejected
			result.Patches = append(result.Patches, patches...)
		}
	}
	s.log.Info().
		Int("patches", result.Count()).
		Int("methods", result.Methods).
		Int("rejected", result.Rejected).
		Msg("module scanned")
	return result
}

// ScanMethod rewrites a single method and returns its patches. Methods
// without a body or with fewer than WindowSize instructions are skipped.
func (s *Scanner) ScanMethod(md *bytecode.MethodDef) []Patch {
	patches, _, _ := s.scanMethod(md)
	return patches
}

func (s *Scanner) scanMethod(md *bytecode.MethodDef) ([]Patch, int, bool) {
	if !md.HasBody() || len(md.Body.Instructions) < WindowSize {
		return nil, 0, false
	}
	name := md.FullName()
	out := Rewrite(md.Body.Instructions, s.opts)
	for _, r := range out.Rejections {
		s.log.Debug().
			Str("method", name).
			Int("index", r.Index).
			Stringer("idiom", r.Idiom).
			Str("encoded", preview(r.Encoded)).
			Str("reason", string(r.Reason)).
			Msg("skipped base64 string")
	}
	for i := range out.Patches {
		p := &out.Patches[i]
		if md.DeclaringType != nil {
			p.Type = md.DeclaringType.FullName()
		}
		p.Method = md.Name
		s.log.Debug().
			Str("method", name).
			Int("index", p.Index).
			Stringer("idiom", p.Idiom).
			Str("decoded", preview(p.Decoded)).
			Msg("patched base64 string")
	}
	// Offsets and branch encodings are recomputed only after every window
	// of the body has its final shape.
	md.Body.SimplifyBranches()
	md.Body.OptimizeBranches()
	return out.Patches, len(out.Rejections), true
}

func preview(s string) string {
	const max = 60
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
