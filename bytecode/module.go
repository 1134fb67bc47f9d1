package bytecode

import (
	"github.com/gofrs/uuid"
)

// Module is a loaded managed module. It is mutable: rewriting passes change
// instruction slots in place and the module is then serialized again.
type Module struct {
	Name  string
	Mvid  uuid.UUID
	Types []*TypeDef
}

// NewModule creates an empty module with a fresh module version id.
func NewModule(name string) *Module {
	return &Module{
		Name: name,
		Mvid: uuid.Must(uuid.NewV4()),
	}
}

// AddType appends a top-level type to the module and returns it.
func (m *Module) AddType(namespace, name string) *TypeDef {
	t := &TypeDef{Namespace: namespace, Name: name}
	m.Types = append(m.Types, t)
	return t
}

// GetTypes returns every type in the module, nested types included, in
// depth-first order. The returned slice is newly allocated.
func (m *Module) GetTypes() []*TypeDef {
	var types []*TypeDef
	for _, t := range m.Types {
		types = append(types, t.flatten()...)
	}
	return types
}

// TypeDef is a type defined in a module.
type TypeDef struct {
	Namespace     string
	Name          string
	Methods       []*MethodDef
	NestedTypes   []*TypeDef
	DeclaringType *TypeDef
}

// FullName returns the fully-qualified name of the type. Nested types are
// separated from their declaring type by a slash.
func (t *TypeDef) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// AddMethod appends a method to the type and returns it. A nil body
// declares an abstract or extern method.
func (t *TypeDef) AddMethod(name string, body *Body) *MethodDef {
	md := &MethodDef{Name: name, Body: body, DeclaringType: t}
	t.Methods = append(t.Methods, md)
	return md
}

// AddNestedType appends a nested type and returns it.
func (t *TypeDef) AddNestedType(name string) *TypeDef {
	nt := &TypeDef{Name: name, DeclaringType: t}
	t.NestedTypes = append(t.NestedTypes, nt)
	return nt
}

func (t *TypeDef) flatten() []*TypeDef {
	types := []*TypeDef{t}
	for _, nt := range t.NestedTypes {
		types = append(types, nt.flatten()...)
	}
	return types
}

// MethodDef is a method defined on a type.
type MethodDef struct {
	Name          string
	Body          *Body
	DeclaringType *TypeDef
}

// HasBody returns true if the method has executable code.
func (m *MethodDef) HasBody() bool {
	return m.Body != nil
}

// FullName returns "Namespace.Type::Method".
func (m *MethodDef) FullName() string {
	if m.DeclaringType == nil {
		return m.Name
	}
	return m.DeclaringType.FullName() + "::" + m.Name
}

// FindMethod returns the method with the given full name, if present.
func (m *Module) FindMethod(fullName string) (*MethodDef, bool) {
	for _, t := range m.GetTypes() {
		for _, md := range t.Methods {
			if md.FullName() == fullName {
				return md, true
			}
		}
	}
	return nil, false
}
