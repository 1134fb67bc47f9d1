package bytecode

import (
	"math"

	"github.com/deepnoodle-ai/b64converter/op"
)

// Body is the executable body of a method.
type Body struct {
	Instructions []*Instruction
	MaxStack     uint16
	InitLocals   bool
}

// NewBody creates a body from the given instructions and computes offsets.
func NewBody(instructions ...*Instruction) *Body {
	b := &Body{Instructions: instructions, MaxStack: 8}
	b.UpdateOffsets()
	return b
}

// UpdateOffsets recomputes the offset of every instruction and returns the
// total code size.
func (b *Body) UpdateOffsets() uint32 {
	var offset uint32
	for _, instr := range b.Instructions {
		instr.Offset = offset
		offset += uint32(instr.Size())
	}
	return offset
}

// IndexOf returns the slot index of the instruction, or -1.
func (b *Body) IndexOf(instr *Instruction) int {
	for i, candidate := range b.Instructions {
		if candidate == instr {
			return i
		}
	}
	return -1
}

// SimplifyBranches rewrites every short branch to its long form. Long
// branches are always encodable, so this is the safe state to be in after
// instructions have changed size.
func (b *Body) SimplifyBranches() {
	for _, instr := range b.Instructions {
		if long, ok := op.LongForm(instr.Op); ok {
			instr.Op = long
		}
	}
	b.UpdateOffsets()
}

// OptimizeBranches rewrites long branches to their short form wherever the
// displacement fits in a signed byte. Shrinking one branch can bring other
// targets into range, so it repeats until nothing changes.
func (b *Body) OptimizeBranches() {
	for {
		b.UpdateOffsets()
		modified := false
		for _, instr := range b.Instructions {
			short, ok := op.ShortForm(instr.Op)
			if !ok {
				continue
			}
			br, ok := instr.Operand.(BranchOperand)
			if !ok || br.Target == nil {
				continue
			}
			var afterShort int64
			if br.Target.Offset >= instr.Offset {
				// Forward: measure from the end of the long form. The real
				// displacement only gets smaller once this branch shrinks.
				afterShort = int64(instr.Offset) + int64(instr.Size())
			} else {
				afterShort = int64(instr.Offset) + int64(op.GetInfo(short).Size)
			}
			displ := int64(br.Target.Offset) - afterShort
			if displ >= math.MinInt8 && displ <= math.MaxInt8 {
				instr.Op = short
				modified = true
			}
		}
		if !modified {
			break
		}
	}
	b.UpdateOffsets()
}

// Displacement returns the encoded displacement of a branch instruction
// relative to the end of the instruction. Offsets must be up to date.
func Displacement(instr *Instruction) (int64, bool) {
	br, ok := instr.Operand.(BranchOperand)
	if !ok || br.Target == nil || !op.IsBranch(instr.Op) {
		return 0, false
	}
	return int64(br.Target.Offset) - (int64(instr.Offset) + int64(instr.Size())), true
}
