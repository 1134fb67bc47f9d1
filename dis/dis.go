// Package dis prints method bodies of a module in an ildasm-like listing.
// It works with the opcodes defined in the `op` package.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/deepnoodle-ai/b64converter/op"
	"github.com/fatih/color"
)

// Instruction represents a single instruction and its decoded operand.
type Instruction struct {
	Index      int
	Offset     uint32
	Name       string
	Opcode     op.Code
	Annotation string
	Constant   any
}

// Disassemble returns a parsed representation of the given method body.
func Disassemble(body *bytecode.Body) ([]Instruction, error) {
	body.UpdateOffsets()
	instructions := make([]Instruction, 0, len(body.Instructions))
	for i, instr := range body.Instructions {
		if instr == nil {
			return nil, fmt.Errorf("instruction %d is nil", i)
		}
		info := op.GetInfo(instr.Op)
		if !info.Valid() {
			return nil, fmt.Errorf("instruction %d: unknown opcode 0x%02x", i, uint16(instr.Op))
		}
		var constant any
		var annotation string
		switch operand := instr.Operand.(type) {
		case nil:
		case bytecode.StringOperand:
			constant = string(operand)
		case *bytecode.MethodRef:
			constant = operand
		case bytecode.BranchOperand:
			annotation = operand.String()
		default:
			annotation = operand.String()
		}
		instructions = append(instructions, Instruction{
			Index:      i,
			Offset:     instr.Offset,
			Name:       info.Name,
			Opcode:     instr.Op,
			Annotation: annotation,
			Constant:   constant,
		})
	}
	return instructions, nil
}

var (
	literalColor = color.New(color.FgGreen)
	callColor    = color.New(color.FgMagenta)
	infoColor    = color.New(color.FgHiCyan)
)

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tOFFSET\tOPCODE\tOPERAND")
	for _, instr := range instructions {
		var operand string
		switch c := instr.Constant.(type) {
		case string:
			if len(c) > 80 {
				c = c[:77] + "..."
			}
			operand = literalColor.Sprint(strconv.Quote(c))
		case *bytecode.MethodRef:
			operand = callColor.Sprint(c.FullName())
		default:
			if instr.Annotation != "" {
				operand = infoColor.Sprint(instr.Annotation)
			}
		}
		fmt.Fprintf(tw, "%d\tIL_%04x\t%s\t%s\n", instr.Index, instr.Offset, instr.Name, operand)
	}
	tw.Flush()
}

// PrintMethod writes a header line for the method followed by its listing.
// Methods without a body print only the header.
func PrintMethod(md *bytecode.MethodDef, writer io.Writer) error {
	if !md.HasBody() {
		fmt.Fprintf(writer, ".method %s (no body)\n", md.FullName())
		return nil
	}
	instructions, err := Disassemble(md.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", md.FullName(), err)
	}
	fmt.Fprintf(writer, ".method %s (%d instructions)\n", md.FullName(), len(instructions))
	Print(instructions, writer)
	return nil
}

// PrintModule lists every method of every type in the module.
func PrintModule(m *bytecode.Module, writer io.Writer) error {
	for _, t := range m.GetTypes() {
		for _, md := range t.Methods {
			if err := PrintMethod(md, writer); err != nil {
				return err
			}
			fmt.Fprintln(writer)
		}
	}
	return nil
}
