package bytecode

import "github.com/deepnoodle-ai/b64converter/op"

// Simple returns an instruction without an operand.
func Simple(code op.Code) *Instruction {
	return &Instruction{Op: code}
}

// Nop returns a nop instruction.
func Nop() *Instruction {
	return Simple(op.Nop)
}

// Ret returns a ret instruction.
func Ret() *Instruction {
	return Simple(op.Ret)
}

// Pop returns a pop instruction.
func Pop() *Instruction {
	return Simple(op.Pop)
}

// Ldstr returns an instruction loading the given string literal.
func Ldstr(s string) *Instruction {
	return &Instruction{Op: op.Ldstr, Operand: StringOperand(s)}
}

// LdcI4 returns an instruction loading a 32-bit integer constant.
func LdcI4(v int32) *Instruction {
	return &Instruction{Op: op.LdcI4, Operand: IntOperand(v)}
}

// Call returns a call to the named method.
func Call(declaringType, name string) *Instruction {
	return &Instruction{Op: op.Call, Operand: NewMethodRef(declaringType, name)}
}

// Callvirt returns a virtual call to the named method.
func Callvirt(declaringType, name string) *Instruction {
	return &Instruction{Op: op.Callvirt, Operand: NewMethodRef(declaringType, name)}
}

// Ldsfld returns a static field load.
func Ldsfld(declaringType, name string) *Instruction {
	return &Instruction{Op: op.Ldsfld, Operand: NewFieldRef(declaringType, name)}
}

// Branch returns a branch instruction aimed at target.
func Branch(code op.Code, target *Instruction) *Instruction {
	return &Instruction{Op: code, Operand: BranchOperand{Target: target}}
}
