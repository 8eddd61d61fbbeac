package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeSet(t *testing.T) {
	assert := assert.New(t)

	testVectors := []struct {
		text     string
		expected TypeSet
	}{
		{"type: integer", TypeSet{Integer}},
		{"type: [string, \"null\"]", TypeSet{String, Null}},
		{"type: [\"null\", string]", TypeSet{Null, String}},
		{"type: [number, number, boolean]", TypeSet{Number, Boolean}},
		{"type: [string]\nnullable: true", TypeSet{String}},
	}

	for _, vec := range testVectors {
		n, err := Parse([]byte(vec.text))
		require.NoError(t, err, vec.text)
		assert.Equal(vec.expected, n.Types, vec.text)
	}
}

func TestParseTypeSetErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte("type: float"))
	assert.Error(err)

	_, err = Parse([]byte("type: {a: b}"))
	assert.Error(err)
}

func TestNodeCategories(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse([]byte("{type: string, nullable: true}"))
	require.NoError(t, err)
	assert.Equal(TypeSet{String, Null}, n.Categories())
	// the declared set is left untouched
	assert.Equal(TypeSet{String}, n.Types)

	n, err = Parse([]byte("{type: [string, \"null\"], nullable: true}"))
	require.NoError(t, err)
	assert.Equal(TypeSet{String, Null}, n.Categories())
}

func TestNodeConst(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse([]byte("const: null"))
	require.NoError(t, err)
	assert.True(n.HasConst())

	n, err = Parse([]byte("const: 3"))
	require.NoError(t, err)
	assert.True(n.HasConst())
	assert.Equal(3, n.Const)

	n, err = Parse([]byte("type: integer"))
	require.NoError(t, err)
	assert.False(n.HasConst())
}

func TestNodeDoc(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse([]byte("{type: integer, title: Age, description: The requested age}"))
	require.NoError(t, err)
	assert.Equal("The requested age", n.Doc())

	n, err = Parse([]byte("{type: integer, title: Age}"))
	require.NoError(t, err)
	assert.Equal("Age", n.Doc())
}

func TestCategoryNames(t *testing.T) {
	assert := assert.New(t)

	for _, c := range Categories() {
		parsed, err := ParseCategory(c.String())
		assert.NoError(err)
		assert.Equal(c, parsed)
	}
	assert.True(Integer.Scalar())
	assert.False(Object.Scalar())
}
