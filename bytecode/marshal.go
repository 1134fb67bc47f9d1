package bytecode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/b64converter/op"
	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/uuid"
)

// Format is an encoding of a module image.
type Format int

const (
	// FormatJSON is an indented JSON document.
	FormatJSON Format = iota + 1
	// FormatCBOR is canonical CBOR.
	FormatCBOR
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat parses "json" or "cbor".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("unknown module format: %q", s)
	}
}

// DetectFormat guesses the encoding of a module image. JSON images start
// with an object; anything else is treated as CBOR.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatCBOR
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal converts a Module into a module image.
func Marshal(m *Module, format Format) ([]byte, error) {
	state, err := stateFromModule(m)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatCBOR:
		return cborEncMode.Marshal(state)
	default:
		return nil, fmt.Errorf("unsupported module format: %d", format)
	}
}

// Unmarshal converts a module image into a Module. The encoding is detected
// from the data and the result is validated.
func Unmarshal(data []byte) (*Module, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty module image")
	}
	var state moduleState
	switch DetectFormat(data) {
	case FormatJSON:
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("decode json module: %w", err)
		}
	default:
		if err := cbor.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("decode cbor module: %w", err)
		}
	}
	m, err := moduleFromState(&state)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Serialization types. The cbor encoder falls back to the json tags.

type memberDef struct {
	DeclaringType string `json:"declaring_type"`
	Name          string `json:"name"`
}

type instructionDef struct {
	Op     string     `json:"op"`
	String *string    `json:"string,omitempty"`
	Method *memberDef `json:"method,omitempty"`
	Field  *memberDef `json:"field,omitempty"`
	Target *int       `json:"target,omitempty"` // Index into the body's instructions
	Int    *int32     `json:"int,omitempty"`
}

type bodyDef struct {
	MaxStack     uint16           `json:"max_stack"`
	InitLocals   bool             `json:"init_locals,omitempty"`
	Instructions []instructionDef `json:"instructions"`
}

type methodDef struct {
	Name string   `json:"name"`
	Body *bodyDef `json:"body,omitempty"`
}

type typeDef struct {
	Namespace   string       `json:"namespace,omitempty"`
	Name        string       `json:"name"`
	Methods     []*methodDef `json:"methods,omitempty"`
	NestedTypes []*typeDef   `json:"nested_types,omitempty"`
}

type moduleState struct {
	Name  string     `json:"name"`
	Mvid  string     `json:"mvid,omitempty"`
	Types []*typeDef `json:"types"`
}

func stateFromModule(m *Module) (*moduleState, error) {
	state := &moduleState{Name: m.Name, Types: []*typeDef{}}
	if m.Mvid != uuid.Nil {
		state.Mvid = m.Mvid.String()
	}
	for _, t := range m.Types {
		td, err := stateFromType(t)
		if err != nil {
			return nil, err
		}
		state.Types = append(state.Types, td)
	}
	return state, nil
}

func stateFromType(t *TypeDef) (*typeDef, error) {
	td := &typeDef{Namespace: t.Namespace, Name: t.Name}
	for _, md := range t.Methods {
		def := &methodDef{Name: md.Name}
		if md.HasBody() {
			body, err := stateFromBody(md.Body)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", md.FullName(), err)
			}
			def.Body = body
		}
		td.Methods = append(td.Methods, def)
	}
	for _, nt := range t.NestedTypes {
		nd, err := stateFromType(nt)
		if err != nil {
			return nil, err
		}
		td.NestedTypes = append(td.NestedTypes, nd)
	}
	return td, nil
}

func stateFromBody(b *Body) (*bodyDef, error) {
	index := make(map[*Instruction]int, len(b.Instructions))
	for i, instr := range b.Instructions {
		index[instr] = i
	}
	def := &bodyDef{
		MaxStack:     b.MaxStack,
		InitLocals:   b.InitLocals,
		Instructions: make([]instructionDef, len(b.Instructions)),
	}
	for i, instr := range b.Instructions {
		info := op.GetInfo(instr.Op)
		if !info.Valid() {
			return nil, fmt.Errorf("instruction %d: unknown opcode 0x%02x", i, uint16(instr.Op))
		}
		d := instructionDef{Op: info.Name}
		switch operand := instr.Operand.(type) {
		case nil:
		case StringOperand:
			s := string(operand)
			d.String = &s
		case *MethodRef:
			d.Method = &memberDef{DeclaringType: operand.DeclaringType, Name: operand.Name}
		case *FieldRef:
			d.Field = &memberDef{DeclaringType: operand.DeclaringType, Name: operand.Name}
		case BranchOperand:
			target, ok := index[operand.Target]
			if !ok {
				return nil, fmt.Errorf("instruction %d: branch target is outside the method body", i)
			}
			d.Target = &target
		case IntOperand:
			v := int32(operand)
			d.Int = &v
		default:
			return nil, fmt.Errorf("instruction %d: unsupported operand type %T", i, operand)
		}
		def.Instructions[i] = d
	}
	return def, nil
}

func moduleFromState(state *moduleState) (*Module, error) {
	m := &Module{Name: state.Name}
	if state.Mvid != "" {
		mvid, err := uuid.FromString(state.Mvid)
		if err != nil {
			return nil, fmt.Errorf("invalid mvid: %w", err)
		}
		m.Mvid = mvid
	}
	for _, td := range state.Types {
		t, err := typeFromState(td, nil)
		if err != nil {
			return nil, err
		}
		m.Types = append(m.Types, t)
	}
	return m, nil
}

func typeFromState(td *typeDef, declaring *TypeDef) (*TypeDef, error) {
	if td == nil {
		return nil, errors.New("null type definition")
	}
	t := &TypeDef{Namespace: td.Namespace, Name: td.Name, DeclaringType: declaring}
	for _, def := range td.Methods {
		if def == nil {
			return nil, fmt.Errorf("%s: null method definition", t.FullName())
		}
		md := &MethodDef{Name: def.Name, DeclaringType: t}
		if def.Body != nil {
			body, err := bodyFromState(def.Body)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", md.FullName(), err)
			}
			md.Body = body
		}
		t.Methods = append(t.Methods, md)
	}
	for _, nd := range td.NestedTypes {
		nt, err := typeFromState(nd, t)
		if err != nil {
			return nil, err
		}
		t.NestedTypes = append(t.NestedTypes, nt)
	}
	return t, nil
}

func bodyFromState(def *bodyDef) (*Body, error) {
	instrs := make([]*Instruction, len(def.Instructions))
	for i := range instrs {
		instrs[i] = &Instruction{}
	}
	for i, d := range def.Instructions {
		code, ok := op.Lookup(d.Op)
		if !ok {
			return nil, fmt.Errorf("instruction %d: unknown opcode %q", i, d.Op)
		}
		instr := instrs[i]
		instr.Op = code
		switch {
		case d.String != nil:
			instr.Operand = StringOperand(*d.String)
		case d.Method != nil:
			instr.Operand = NewMethodRef(d.Method.DeclaringType, d.Method.Name)
		case d.Field != nil:
			instr.Operand = NewFieldRef(d.Field.DeclaringType, d.Field.Name)
		case d.Target != nil:
			target := *d.Target
			if target < 0 || target >= len(instrs) {
				return nil, fmt.Errorf("instruction %d: branch target %d out of range", i, target)
			}
			instr.Operand = BranchOperand{Target: instrs[target]}
		case d.Int != nil:
			instr.Operand = IntOperand(*d.Int)
		}
	}
	b := &Body{
		Instructions: instrs,
		MaxStack:     def.MaxStack,
		InitLocals:   def.InitLocals,
	}
	b.UpdateOffsets()
	return b, nil
}
