package extractor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/udex/internal/core"
)

func registeredMemory(t *testing.T, sdl ...string) *Memory {
	t.Helper()
	m := NewMemory()
	for _, s := range sdl {
		_, err := m.RegisterSourceWithDataDescription(sdlDescription(s))
		require.NoError(t, err)
	}
	return m
}

func TestTypeSchema_Flat(t *testing.T) {
	m := registeredMemory(t, arraysSDL)

	out, err := m.TypeSchema("SIM VFB.array_root.simple_float_arrays", SchemaOptions{})
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")

	var doc schemaDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "1.0", doc.Version)
	require.Len(t, doc.Types.Structs, 1)

	s := doc.Types.Structs[0]
	assert.Equal(t, "array_root.simple_float_arrays", s.Name)
	assert.Equal(t, uint64(80), s.Size)
	assert.Empty(t, s.URL)
	require.Len(t, s.Members, 2)
	assert.Equal(t, schemaMember{
		Name:            "ten_more_floats",
		Offset:          40,
		ByteOrder:       "little",
		Type:            "float32",
		ArrayDimensions: []uint64{10},
	}, s.Members[1])
}

func TestTypeSchema_Nested(t *testing.T) {
	m := registeredMemory(t, arraysSDL)

	out, err := m.TypeSchema("SIM VFB.array_root.array_of_structs", SchemaOptions{})
	require.NoError(t, err)

	var doc schemaDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Types.Structs, 3)

	top := doc.Types.Structs[0]
	assert.Equal(t, "array_root.array_of_structs", top.Name)
	assert.Equal(t, "array_root.array_of_structs.first_group", top.Members[0].Type)
	assert.Equal(t, []uint64{5}, top.Members[0].ArrayDimensions)
	assert.Equal(t, "array_root.array_of_structs.second_group", top.Members[1].Type)

	first := doc.Types.Structs[1]
	assert.Equal(t, uint64(12), first.Size)
	assert.Equal(t, "uint64", first.Members[0].Type)
	assert.Nil(t, first.Members[0].ArrayDimensions)

	second := doc.Types.Structs[2]
	assert.Equal(t, "big", second.Members[0].ByteOrder)
	assert.Equal(t, "uint8", second.Members[3].Type)

	// a nested structure has a schema of its own
	out, err = m.TypeSchema("SIM VFB.array_root.array_of_structs.first_group", SchemaOptions{})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Types.Structs, 1)
}

func TestTypeSchema_Annotate(t *testing.T) {
	m := registeredMemory(t, arraysSDL)

	out, err := m.TypeSchema("SIM VFB.array_root.array_of_array", SchemaOptions{Annotate: true, PrettyPrint: true})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "\n  "), "pretty output is indented")

	var doc schemaDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	top := doc.Types.Structs[0]
	assert.Equal(t, "SIM VFB.array_root.array_of_array", top.URL)
	assert.Equal(t, "0x90110440", top.Address)
	assert.Equal(t, uint32(2), top.CycleID, "cycle of the enclosing view")
	assert.Empty(t, doc.Types.Structs[1].URL, "only the top struct is annotated")
}

func TestTypeSchema_Validation(t *testing.T) {
	m := registeredMemory(t, brokenTypeSDL)
	url := "SIM VFB.Broken.Odd"

	_, err := m.TypeSchema(url, SchemaOptions{})
	require.ErrorIs(t, err, core.ErrSchemaValidation)
	assert.ErrorContains(t, err, "quaternion")
	assert.ErrorContains(t, err, "beyond struct size")

	out, err := m.TypeSchema(url, SchemaOptions{IgnoreErrors: true})
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"quaternion"`)
}

func TestTypeSchema_NotAStructure(t *testing.T) {
	m := registeredMemory(t, arraysSDL)

	_, err := m.TypeSchema("SIM VFB.array_root", SchemaOptions{})
	assert.ErrorIs(t, err, core.ErrSchemaValidation)

	_, err = m.TypeSchema("SIM VFB.array_root.simple_float_arrays.ten_floats", SchemaOptions{})
	assert.ErrorIs(t, err, core.ErrSchemaValidation)

	_, err = m.TypeSchema("SIM VFB.nowhere", SchemaOptions{})
	assert.ErrorIs(t, err, core.ErrNodeNotFound)
}
