package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/b64converter/op"
	"github.com/stretchr/testify/require"
)

func sampleModule() *Module {
	m := NewModule("Sample.dll")
	program := m.AddType("Sample", "Program")
	ret := Ret()
	program.AddMethod("Main", NewBody(
		Ldarg(),
		Branch(op.BrfalseS, ret),
		Ldstr(""),
		Ldstr("SGVsbG8="),
		Call("System.Convert", "FromBase64String"),
		LdcI4(42),
		Ldsfld("Sample.Program", "cache"),
		ret,
	))
	program.AddMethod("Extern", nil)
	program.AddNestedType("<>c").AddMethod("Lambda", NewBody(Nop(), Ret()))
	return m
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatCBOR} {
		t.Run(format.String(), func(t *testing.T) {
			m := sampleModule()
			data, err := Marshal(m, format)
			require.NoError(t, err)
			require.Equal(t, format, DetectFormat(data))

			loaded, err := Unmarshal(data)
			require.NoError(t, err)
			require.Equal(t, m.Name, loaded.Name)
			require.Equal(t, m.Mvid, loaded.Mvid)
			require.Equal(t, m.Stats(), loaded.Stats())

			main, ok := loaded.FindMethod("Sample.Program::Main")
			require.True(t, ok)
			orig := m.Types[0].Methods[0].Body
			require.Len(t, main.Body.Instructions, len(orig.Instructions))
			for i, instr := range main.Body.Instructions {
				require.Equal(t, orig.Instructions[i].String(), instr.String(), "instruction %d", i)
			}

			// Branch targets are rebuilt as pointers into the loaded body.
			br := main.Body.Instructions[1].Operand.(BranchOperand)
			require.Same(t, main.Body.Instructions[7], br.Target)

			ext, ok := loaded.FindMethod("Sample.Program::Extern")
			require.True(t, ok)
			require.False(t, ext.HasBody())

			lambda, ok := loaded.FindMethod("Sample.Program/<>c::Lambda")
			require.True(t, ok)
			require.Len(t, lambda.Body.Instructions, 2)
		})
	}
}

func TestMarshalUnknownFormat(t *testing.T) {
	_, err := Marshal(sampleModule(), Format(9))
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)
	f, err = ParseFormat("cbor")
	require.NoError(t, err)
	require.Equal(t, FormatCBOR, f)
	_, err = ParseFormat("pe")
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	require.Equal(t, FormatJSON, DetectFormat([]byte("  \n{\"name\":\"x\"}")))
	require.Equal(t, FormatCBOR, DetectFormat([]byte{0xa3, 0x64}))
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"empty", "  ", "empty module image"},
		{"bad json", `{"name": `, "decode json module"},
		{"bad cbor", "\xff\xff", "decode cbor module"},
		{"bad mvid", `{"name":"x","mvid":"nope","types":[]}`, "invalid mvid"},
		{"unknown opcode", `{"name":"x","types":[{"name":"T","methods":[{"name":"M","body":{"max_stack":8,"instructions":[{"op":"calli"}]}}]}]}`, `unknown opcode "calli"`},
		{"target range", `{"name":"x","types":[{"name":"T","methods":[{"name":"M","body":{"max_stack":8,"instructions":[{"op":"br","target":5}]}}]}]}`, "branch target 5 out of range"},
		{"operand mismatch", `{"name":"x","types":[{"name":"T","methods":[{"name":"M","body":{"max_stack":8,"instructions":[{"op":"ldstr"}]}}]}]}`, "does not match InlineString"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestUnmarshalJSONDocument(t *testing.T) {
	data := `{
  "name": "Tiny.dll",
  "types": [
    {
      "namespace": "Tiny",
      "name": "Program",
      "methods": [
        {
          "name": "Main",
          "body": {
            "max_stack": 2,
            "instructions": [
              {"op": "ldstr", "string": "hi"},
              {"op": "call", "method": {"declaring_type": "System.Console", "name": "WriteLine"}},
              {"op": "ret"}
            ]
          }
        }
      ]
    }
  ]
}`
	m, err := Unmarshal([]byte(data))
	require.NoError(t, err)
	main, ok := m.FindMethod("Tiny.Program::Main")
	require.True(t, ok)
	require.Equal(t, uint16(2), main.Body.MaxStack)
	require.Equal(t, uint32(10), main.Body.Instructions[2].Offset)
	ref := main.Body.Instructions[1].Operand.(*MethodRef)
	require.Equal(t, "System.Console::WriteLine", ref.FullName())
}
