// Package op defines the CIL opcodes understood by the module model and the
// string deobfuscator.
package op

// Code is a CIL opcode. Two-byte opcodes (0xFE prefix) are not modeled.
type Code uint16

const (
	// Base
	Nop    Code = 0x00
	Ldarg0 Code = 0x02
	Ldarg1 Code = 0x03
	Ldarg2 Code = 0x04
	Ldarg3 Code = 0x05
	Ldloc0 Code = 0x06
	Ldloc1 Code = 0x07
	Ldloc2 Code = 0x08
	Ldloc3 Code = 0x09
	Stloc0 Code = 0x0A
	Stloc1 Code = 0x0B
	Stloc2 Code = 0x0C
	Stloc3 Code = 0x0D

	// Constants
	Ldnull Code = 0x14
	LdcI4S Code = 0x1F
	LdcI4  Code = 0x20

	// Stack
	Dup Code = 0x25
	Pop Code = 0x26

	// Calls
	Call Code = 0x28
	Ret  Code = 0x2A

	// Short branches (int8 displacement)
	BrS      Code = 0x2B
	BrfalseS Code = 0x2C
	BrtrueS  Code = 0x2D
	BeqS     Code = 0x2E
	BneUnS   Code = 0x33

	// Long branches (int32 displacement)
	Br      Code = 0x38
	Brfalse Code = 0x39
	Brtrue  Code = 0x3A
	Beq     Code = 0x3B
	BneUn   Code = 0x40

	// Objects
	Callvirt Code = 0x6F
	Ldstr    Code = 0x72
	Newobj   Code = 0x73
	Ldsfld   Code = 0x7E
	Stsfld   Code = 0x80

	// Exception blocks
	Leave  Code = 0xDD
	LeaveS Code = 0xDE
)

// OperandKind describes the inline operand an opcode carries.
type OperandKind uint8

const (
	InlineNone OperandKind = iota
	InlineString
	InlineMethod
	InlineField
	InlineBrTarget
	ShortInlineBrTarget
	InlineI
	ShortInlineI
)

// String returns the ECMA-335 name of the operand kind.
func (k OperandKind) String() string {
	switch k {
	case InlineNone:
		return "InlineNone"
	case InlineString:
		return "InlineString"
	case InlineMethod:
		return "InlineMethod"
	case InlineField:
		return "InlineField"
	case InlineBrTarget:
		return "InlineBrTarget"
	case ShortInlineBrTarget:
		return "ShortInlineBrTarget"
	case InlineI:
		return "InlineI"
	case ShortInlineI:
		return "ShortInlineI"
	default:
		return ""
	}
}

// OperandSize returns the encoded size of the operand in bytes.
func (k OperandKind) OperandSize() int {
	switch k {
	case InlineNone:
		return 0
	case ShortInlineBrTarget, ShortInlineI:
		return 1
	default:
		// Tokens and 32-bit immediates/displacements.
		return 4
	}
}

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Operand OperandKind
	// Size is the encoded size of the instruction, opcode byte included.
	Size int
}

// Valid reports whether the Info describes a known opcode.
func (i Info) Valid() bool {
	return i.Name != ""
}

var (
	infos   = make([]Info, 256)
	byName  = make(map[string]Code, 64)
	toShort = map[Code]Code{}
	toLong  = map[Code]Code{}
)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand OperandKind
	}
	ops := []opInfo{
		{Nop, "nop", InlineNone},
		{Ldarg0, "ldarg.0", InlineNone},
		{Ldarg1, "ldarg.1", InlineNone},
		{Ldarg2, "ldarg.2", InlineNone},
		{Ldarg3, "ldarg.3", InlineNone},
		{Ldloc0, "ldloc.0", InlineNone},
		{Ldloc1, "ldloc.1", InlineNone},
		{Ldloc2, "ldloc.2", InlineNone},
		{Ldloc3, "ldloc.3", InlineNone},
		{Stloc0, "stloc.0", InlineNone},
		{Stloc1, "stloc.1", InlineNone},
		{Stloc2, "stloc.2", InlineNone},
		{Stloc3, "stloc.3", InlineNone},
		{Ldnull, "ldnull", InlineNone},
		{LdcI4S, "ldc.i4.s", ShortInlineI},
		{LdcI4, "ldc.i4", InlineI},
		{Dup, "dup", InlineNone},
		{Pop, "pop", InlineNone},
		{Call, "call", InlineMethod},
		{Ret, "ret", InlineNone},
		{BrS, "br.s", ShortInlineBrTarget},
		{BrfalseS, "brfalse.s", ShortInlineBrTarget},
		{BrtrueS, "brtrue.s", ShortInlineBrTarget},
		{BeqS, "beq.s", ShortInlineBrTarget},
		{BneUnS, "bne.un.s", ShortInlineBrTarget},
		{Br, "br", InlineBrTarget},
		{Brfalse, "brfalse", InlineBrTarget},
		{Brtrue, "brtrue", InlineBrTarget},
		{Beq, "beq", InlineBrTarget},
		{BneUn, "bne.un", InlineBrTarget},
		{Callvirt, "callvirt", InlineMethod},
		{Ldstr, "ldstr", InlineString},
		{Newobj, "newobj", InlineMethod},
		{Ldsfld, "ldsfld", InlineField},
		{Stsfld, "stsfld", InlineField},
		{Leave, "leave", InlineBrTarget},
		{LeaveS, "leave.s", ShortInlineBrTarget},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Operand: o.operand,
			Size:    1 + o.operand.OperandSize(),
		}
		byName[o.name] = o.op
	}
	pairs := [][2]Code{
		{BrS, Br},
		{BrfalseS, Brfalse},
		{BrtrueS, Brtrue},
		{BeqS, Beq},
		{BneUnS, BneUn},
		{LeaveS, Leave},
	}
	for _, p := range pairs {
		toLong[p[0]] = p[1]
		toShort[p[1]] = p[0]
	}
}

// GetInfo returns information about the given opcode. The zero Info is
// returned for unknown opcodes.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}

// Lookup returns the opcode with the given mnemonic, e.g. "ldstr".
func Lookup(name string) (Code, bool) {
	c, ok := byName[name]
	return c, ok
}

// String returns the mnemonic of the opcode.
func (c Code) String() string {
	if info := GetInfo(c); info.Valid() {
		return info.Name
	}
	return "unknown"
}

// ShortForm returns the short branch encoding of a long branch opcode.
func ShortForm(c Code) (Code, bool) {
	s, ok := toShort[c]
	return s, ok
}

// LongForm returns the long branch encoding of a short branch opcode.
func LongForm(c Code) (Code, bool) {
	l, ok := toLong[c]
	return l, ok
}

// IsBranch reports whether the opcode carries a branch target.
func IsBranch(c Code) bool {
	k := GetInfo(c).Operand
	return k == InlineBrTarget || k == ShortInlineBrTarget
}

// IsCall reports whether the opcode is a direct or virtual call.
func IsCall(c Code) bool {
	return c == Call || c == Callvirt
}
