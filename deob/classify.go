package deob

import (
	"strings"

	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/deepnoodle-ai/b64converter/op"
)

const (
	convertType  = "System.Convert"
	encodingType = "System.Text.Encoding"
)

// StringLiteralAt returns the literal loaded by the instruction at index i
// if it is an ldstr. The caller must keep i in range.
func StringLiteralAt(seq []*bytecode.Instruction, i int) (string, bool) {
	instr := seq[i]
	if instr == nil || instr.Op != op.Ldstr {
		return "", false
	}
	s, ok := instr.Operand.(bytecode.StringOperand)
	if !ok {
		return "", false
	}
	return string(s), true
}

// CallTargetAt returns the callee of the instruction at index i if it is a
// call or callvirt. The caller must keep i in range.
func CallTargetAt(seq []*bytecode.Instruction, i int) (*bytecode.MethodRef, bool) {
	instr := seq[i]
	if instr == nil || !op.IsCall(instr.Op) {
		return nil, false
	}
	ref, ok := instr.Operand.(*bytecode.MethodRef)
	if !ok || ref == nil {
		return nil, false
	}
	return ref, true
}

// IsBase64DecodeCall reports whether ref is System.Convert::FromBase64String.
func IsBase64DecodeCall(ref *bytecode.MethodRef) bool {
	return ref != nil && ref.Name == "FromBase64String" && ref.DeclaringType == convertType
}

// IsEncodingGetterCall reports whether ref is one of the static encoding
// property getters on System.Text.Encoding, e.g. get_UTF8. Which encoding is
// requested does not matter.
func IsEncodingGetterCall(ref *bytecode.MethodRef) bool {
	return ref != nil && strings.HasPrefix(ref.Name, "get_") && ref.DeclaringType == encodingType
}

// IsGetStringCall reports whether ref is System.Text.Encoding::GetString.
func IsGetStringCall(ref *bytecode.MethodRef) bool {
	return ref != nil && ref.Name == "GetString" && ref.DeclaringType == encodingType
}

// callMatches reports whether seq[i] is a call whose target satisfies pred.
func callMatches(seq []*bytecode.Instruction, i int, pred func(*bytecode.MethodRef) bool) bool {
	ref, ok := CallTargetAt(seq, i)
	return ok && pred(ref)
}
