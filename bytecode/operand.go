package bytecode

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/b64converter/op"
)

// Operand is the inline operand of an instruction. It is implemented by
// StringOperand, *MethodRef, *FieldRef, BranchOperand and IntOperand. A nil
// Operand means the instruction has no operand.
type Operand interface {
	// Kind returns the long-form operand kind this value satisfies.
	Kind() op.OperandKind
	String() string
	isOperand()
}

// StringOperand is the user string loaded by ldstr.
type StringOperand string

func (StringOperand) Kind() op.OperandKind { return op.InlineString }

func (s StringOperand) String() string { return strconv.Quote(string(s)) }

func (StringOperand) isOperand() {}

// MethodRef identifies a method by its simple name and the full name of its
// declaring type, e.g. "System.Convert" and "FromBase64String".
type MethodRef struct {
	DeclaringType string
	Name          string
}

// NewMethodRef returns a reference to the named method.
func NewMethodRef(declaringType, name string) *MethodRef {
	return &MethodRef{DeclaringType: declaringType, Name: name}
}

func (*MethodRef) Kind() op.OperandKind { return op.InlineMethod }

// FullName returns "DeclaringType::Name".
func (m *MethodRef) FullName() string {
	if m == nil {
		return ""
	}
	return m.DeclaringType + "::" + m.Name
}

func (m *MethodRef) String() string { return m.FullName() }

func (*MethodRef) isOperand() {}

// FieldRef identifies a field by name and declaring type.
type FieldRef struct {
	DeclaringType string
	Name          string
}

// NewFieldRef returns a reference to the named field.
func NewFieldRef(declaringType, name string) *FieldRef {
	return &FieldRef{DeclaringType: declaringType, Name: name}
}

func (*FieldRef) Kind() op.OperandKind { return op.InlineField }

// FullName returns "DeclaringType::Name".
func (f *FieldRef) FullName() string {
	if f == nil {
		return ""
	}
	return f.DeclaringType + "::" + f.Name
}

func (f *FieldRef) String() string { return f.FullName() }

func (*FieldRef) isOperand() {}

// BranchOperand points at the instruction a branch transfers control to.
type BranchOperand struct {
	Target *Instruction
}

func (BranchOperand) Kind() op.OperandKind { return op.InlineBrTarget }

func (b BranchOperand) String() string {
	if b.Target == nil {
		return "<nil>"
	}
	return label(b.Target.Offset)
}

func (BranchOperand) isOperand() {}

// IntOperand is an inline 32-bit (or 8-bit, for short forms) immediate.
type IntOperand int32

func (IntOperand) Kind() op.OperandKind { return op.InlineI }

func (i IntOperand) String() string { return strconv.Itoa(int(i)) }

func (IntOperand) isOperand() {}

func label(offset uint32) string {
	return fmt.Sprintf("IL_%04x", offset)
}

// operandMatches reports whether operand is acceptable for an opcode whose
// inline operand has the given kind.
func operandMatches(kind op.OperandKind, operand Operand) bool {
	switch kind {
	case op.InlineNone:
		return operand == nil
	case op.InlineString:
		_, ok := operand.(StringOperand)
		return ok
	case op.InlineMethod:
		m, ok := operand.(*MethodRef)
		return ok && m != nil
	case op.InlineField:
		f, ok := operand.(*FieldRef)
		return ok && f != nil
	case op.InlineBrTarget, op.ShortInlineBrTarget:
		b, ok := operand.(BranchOperand)
		return ok && b.Target != nil
	case op.InlineI:
		_, ok := operand.(IntOperand)
		return ok
	case op.ShortInlineI:
		i, ok := operand.(IntOperand)
		return ok && i >= -128 && i <= 127
	default:
		return false
	}
}
