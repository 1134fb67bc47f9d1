package bytecode

import (
	"github.com/deepnoodle-ai/b64converter/op"
)

// Instruction is one slot of a method body: an opcode, its inline operand
// and the byte offset computed by Body.UpdateOffsets.
type Instruction struct {
	Op      op.Code
	Operand Operand
	Offset  uint32
}

// Size returns the encoded size of the instruction in bytes.
func (i *Instruction) Size() int {
	return op.GetInfo(i.Op).Size
}

// Set overwrites the opcode and operand of the instruction in place.
func (i *Instruction) Set(code op.Code, operand Operand) {
	i.Op = code
	i.Operand = operand
}

// String returns the instruction in ildasm style, e.g.
// `IL_0004: ldstr "Hello"`.
func (i *Instruction) String() string {
	s := label(i.Offset) + ": " + i.Op.String()
	if i.Operand != nil {
		s += " " + i.Operand.String()
	}
	return s
}
