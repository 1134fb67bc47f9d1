package deob

import (
	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/deepnoodle-ai/b64converter/op"
)

func encodingGetter() *bytecode.Instruction {
	return bytecode.Call("System.Text.Encoding", "get_UTF8")
}

func fromBase64() *bytecode.Instruction {
	return bytecode.Call("System.Convert", "FromBase64String")
}

func getString() *bytecode.Instruction {
	return bytecode.Callvirt("System.Text.Encoding", "GetString")
}

// getterFirst builds get_UTF8, ldstr, FromBase64String, GetString.
func getterFirst(literal string) []*bytecode.Instruction {
	return []*bytecode.Instruction{encodingGetter(), bytecode.Ldstr(literal), fromBase64(), getString()}
}

// literalFirst builds ldstr, FromBase64String, get_UTF8, GetString.
func literalFirst(literal string) []*bytecode.Instruction {
	return []*bytecode.Instruction{bytecode.Ldstr(literal), fromBase64(), encodingGetter(), getString()}
}

func seq(parts ...[]*bytecode.Instruction) []*bytecode.Instruction {
	var out []*bytecode.Instruction
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func one(instrs ...*bytecode.Instruction) []*bytecode.Instruction {
	return instrs
}

// snapshot captures opcodes and operands so tests can detect mutation.
func snapshot(instrs []*bytecode.Instruction) []string {
	out := make([]string, len(instrs))
	for i, instr := range instrs {
		out[i] = instr.Op.String()
		if instr.Operand != nil {
			out[i] += " " + instr.Operand.String()
		}
	}
	return out
}

func ldarg0() *bytecode.Instruction {
	return bytecode.Simple(op.Ldarg0)
}
