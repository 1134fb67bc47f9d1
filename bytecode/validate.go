package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/b64converter/op"
	"github.com/hashicorp/go-multierror"
)

// Validate checks the structural integrity of every method body and returns
// all problems found, or nil.
func (m *Module) Validate() error {
	var result *multierror.Error
	for _, t := range m.GetTypes() {
		for _, md := range t.Methods {
			if !md.HasBody() {
				continue
			}
			if err := md.Body.validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", md.FullName(), err))
			}
		}
	}
	return result.ErrorOrNil()
}

// Validate checks the body on its own.
func (b *Body) Validate() error {
	return b.validate().ErrorOrNil()
}

func (b *Body) validate() *multierror.Error {
	var result *multierror.Error
	members := make(map[*Instruction]struct{}, len(b.Instructions))
	for _, instr := range b.Instructions {
		if instr != nil {
			members[instr] = struct{}{}
		}
	}
	for i, instr := range b.Instructions {
		if instr == nil {
			result = multierror.Append(result, fmt.Errorf("instruction %d is nil", i))
			continue
		}
		info := op.GetInfo(instr.Op)
		if !info.Valid() {
			result = multierror.Append(result, fmt.Errorf("instruction %d: unknown opcode 0x%02x", i, uint16(instr.Op)))
			continue
		}
		if !operandMatches(info.Operand, instr.Operand) {
			result = multierror.Append(result, fmt.Errorf("instruction %d: %s: operand %v does not match %s",
				i, info.Name, instr.Operand, info.Operand))
			continue
		}
		if br, ok := instr.Operand.(BranchOperand); ok {
			if _, ok := members[br.Target]; !ok {
				result = multierror.Append(result, fmt.Errorf("instruction %d: %s: branch target is outside the method body", i, info.Name))
			}
		}
	}
	return result
}
