// Package bytecode provides a mutable in-memory model of a managed module:
// types, methods, method bodies and their CIL instruction streams.
//
// The model is intentionally small. It carries just enough structure for
// instruction-level rewriting passes to find and patch call sequences while
// keeping branch targets valid.
//
// # Key Types
//
//   - [Module]: the root object, a list of [TypeDef] values
//   - [MethodDef]: a method, optionally owning a [Body]
//   - [Body]: an ordered, mutable slice of [Instruction] pointers
//   - [Operand]: a sealed variant over the inline operands an opcode carries
//
// # Instruction Identity
//
// Branch operands refer to their target by pointer. Passes that rewrite code
// in place should overwrite the fields of an existing [Instruction] instead
// of replacing the slot, so that every branch aimed at the slot stays valid.
// After rewriting, call [Body.SimplifyBranches] followed by
// [Body.OptimizeBranches] to recompute offsets and branch encodings.
//
// # Serialization
//
// Modules are persisted as module images, either indented JSON or canonical
// CBOR:
//
//	m, err := bytecode.Unmarshal(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Types: %d\n", len(m.GetTypes()))
//	out, err := bytecode.Marshal(m, bytecode.FormatCBOR)
package bytecode
