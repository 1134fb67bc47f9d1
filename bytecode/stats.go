package bytecode

import "github.com/deepnoodle-ai/b64converter/op"

// Stats contains statistics about a module.
// This is useful for reporting what a rewriting pass looked at.
type Stats struct {
	// TypeCount is the number of types, nested types included.
	TypeCount int `json:"types"`

	// MethodCount is the number of methods.
	MethodCount int `json:"methods"`

	// BodyCount is the number of methods with a body.
	BodyCount int `json:"bodies"`

	// InstructionCount is the total number of instructions.
	InstructionCount int `json:"instructions"`

	// StringLiteralCount is the number of ldstr instructions.
	StringLiteralCount int `json:"string_literals"`
}

// Stats returns statistics about this module.
func (m *Module) Stats() Stats {
	var s Stats
	for _, t := range m.GetTypes() {
		s.TypeCount++
		for _, md := range t.Methods {
			s.MethodCount++
			if !md.HasBody() {
				continue
			}
			s.BodyCount++
			s.InstructionCount += len(md.Body.Instructions)
			for _, instr := range md.Body.Instructions {
				if instr.Op == op.Ldstr {
					s.StringLiteralCount++
				}
			}
		}
	}
	return s
}
