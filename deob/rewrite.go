package deob

import (
	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/deepnoodle-ai/b64converter/op"
)

// WindowSize is the number of instruction slots a decode sequence occupies.
const WindowSize = 4

// Idiom identifies which ordering of the decode sequence matched.
type Idiom int

const (
	IdiomNone Idiom = iota
	// IdiomGetterFirst is get_X, ldstr, FromBase64String, GetString.
	IdiomGetterFirst
	// IdiomLiteralFirst is ldstr, FromBase64String, get_X, GetString.
	IdiomLiteralFirst
)

// String returns a short name for the idiom.
func (i Idiom) String() string {
	switch i {
	case IdiomGetterFirst:
		return "getter-first"
	case IdiomLiteralFirst:
		return "literal-first"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i Idiom) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Reason explains why a matched window was left untouched.
type Reason string

const (
	ReasonMalformedBase64 Reason = "malformed base64"
	ReasonInvalidUTF8     Reason = "invalid utf-8"
	ReasonNotPrintable    Reason = "not printable"
)

// Options control how decoded literals are accepted.
type Options struct {
	// StrictUTF8 rejects payloads that are not valid UTF-8 instead of
	// reading them as ISO-8859-1.
	StrictUTF8 bool
}

// Patch records one collapsed decode sequence.
type Patch struct {
	Type    string `json:"type,omitempty"`
	Method  string `json:"method,omitempty"`
	Index   int    `json:"index"`
	Idiom   Idiom  `json:"idiom"`
	Encoded string `json:"encoded"`
	Decoded string `json:"decoded"`
}

// Rejection records a matched window that was not patched.
type Rejection struct {
	Index   int
	Idiom   Idiom
	Encoded string
	Reason  Reason
}

// Outcome is the result of rewriting one instruction sequence.
type Outcome struct {
	Patches    []Patch
	Rejections []Rejection
}

// Match tests both idioms at window start i and returns the idiom found and
// the index of its ldstr. The caller must ensure i+WindowSize <= len(seq).
func Match(seq []*bytecode.Instruction, i int) (Idiom, int) {
	if !callMatches(seq, i+3, IsGetStringCall) {
		return IdiomNone, -1
	}
	if callMatches(seq, i, IsEncodingGetterCall) &&
		isLiteral(seq, i+1) &&
		callMatches(seq, i+2, IsBase64DecodeCall) {
		return IdiomGetterFirst, i + 1
	}
	if isLiteral(seq, i) &&
		callMatches(seq, i+1, IsBase64DecodeCall) &&
		callMatches(seq, i+2, IsEncodingGetterCall) {
		return IdiomLiteralFirst, i
	}
	return IdiomNone, -1
}

func isLiteral(seq []*bytecode.Instruction, i int) bool {
	_, ok := StringLiteralAt(seq, i)
	return ok
}

// Rewrite scans seq left to right and collapses every acceptable decode
// sequence in place: the first slot of the window becomes an ldstr of the
// decoded text and the other three become nops. Slots are overwritten, never
// inserted or removed, so len(seq) and instruction identities are preserved.
// Scanning resumes after a patched window; any other outcome advances by one
// slot.
func Rewrite(seq []*bytecode.Instruction, opts Options) Outcome {
	var out Outcome
	i := 0
	for i+WindowSize <= len(seq) {
		idiom, lit := Match(seq, i)
		if idiom == IdiomNone {
			i++
			continue
		}
		encoded, _ := StringLiteralAt(seq, lit)
		decoded, reason := decodeLiteral(encoded, opts)
		if reason != "" {
			out.Rejections = append(out.Rejections, Rejection{
				Index:   i,
				Idiom:   idiom,
				Encoded: encoded,
				Reason:  reason,
			})
			i++
			continue
		}
		patchWindow(seq, i, decoded)
		out.Patches = append(out.Patches, Patch{
			Index:   i,
			Idiom:   idiom,
			Encoded: encoded,
			Decoded: decoded,
		})
		i += WindowSize
	}
	return out
}

func decodeLiteral(encoded string, opts Options) (string, Reason) {
	raw, err := DecodeBase64(encoded)
	if err != nil {
		return "", ReasonMalformedBase64
	}
	text, err := DecodeText(raw, opts.StrictUTF8)
	if err != nil {
		return "", ReasonInvalidUTF8
	}
	if !LooksPrintable(text) {
		return "", ReasonNotPrintable
	}
	return text, ""
}

func patchWindow(seq []*bytecode.Instruction, i int, decoded string) {
	seq[i].Set(op.Ldstr, bytecode.StringOperand(decoded))
	for k := 1; k < WindowSize; k++ {
		seq[i+k].Set(op.Nop, nil)
	}
}
