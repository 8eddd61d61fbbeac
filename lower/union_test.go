package lower

import (
	"errors"
	"testing"

	"github.com/bluesky-social/oapigen/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionOptional(t *testing.T) {
	assert := assert.New(t)

	union, err := Lower(nil, "Name", parseNode(t, "type: [string, \"null\"]"))
	require.NoError(t, err)
	single, err := Lower(nil, "Name", parseNode(t, "type: string"))
	require.NoError(t, err)

	assert.True(union.Optional)
	assert.False(union.Type.IsUnion())
	assert.Equal(single.Type, union.Type)
	assert.Equal(single.Imports, union.Imports)

	// null first makes no difference to the type
	reversed, err := Lower(nil, "Name", parseNode(t, "type: [\"null\", string]"))
	require.NoError(t, err)
	assert.Equal(union.Type, reversed.Type)
	assert.True(reversed.Optional)
}

func TestUnionAlternatives(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{Datetime: DatetimeJiff}
	node := parseNode(t, "{type: [integer, string, \"null\"], format: date-time, description: mixed}")
	d, err := Synthesize(cfg, "Mixed", node, node.Categories())
	require.NoError(t, err)

	// date-time is not a number format, so the integer branch falls back to its default
	assert.True(d.Type.IsUnion())
	assert.Equal("i32|Timestamp", d.Type.String())
	assert.True(d.Optional)
	assert.Equal("mixed", d.Doc)
	assert.Equal([]string{serdeImport.Key, "jiff::{Timestamp}"}, d.Imports.Keys())
	assert.Len(d.Decorators, 1)
}

func TestUnionOrderAndDedup(t *testing.T) {
	assert := assert.New(t)

	node := parseNode(t, "type: string")
	d, err := Synthesize(nil, "Value", node, []schema.Category{schema.Number, schema.Integer, schema.Number, schema.Boolean})
	require.NoError(t, err)
	assert.Equal("f32|i32|bool", d.Type.String())
	assert.False(d.Optional)
}

func TestUnionOnlyNull(t *testing.T) {
	assert := assert.New(t)

	node := parseNode(t, "type: \"null\"")
	d, err := Synthesize(nil, "Nothing", node, []schema.Category{schema.Null, schema.Null})
	require.NoError(t, err)
	null, _ := ResolveNull()
	assert.Equal(null, d.Type)
	assert.True(d.Optional)
}

func TestUnionNoBranches(t *testing.T) {
	assert := assert.New(t)

	_, err := Union()
	assert.ErrorIs(err, ErrNoBranches)

	_, err = Synthesize(nil, "Empty", parseNode(t, "type: string"), nil)
	assert.ErrorIs(err, ErrNoBranches)
	var merr *MergeError
	assert.True(errors.As(err, &merr))
}

func TestUnionNameMismatch(t *testing.T) {
	assert := assert.New(t)

	a, err := Lower(nil, "First", parseNode(t, "type: string"))
	require.NoError(t, err)
	b, err := Lower(nil, "Second", parseNode(t, "type: integer"))
	require.NoError(t, err)

	_, err = Union(*a, *b)
	assert.ErrorIs(err, ErrNameMismatch)
	var merr *MergeError
	if assert.True(errors.As(err, &merr)) {
		assert.Equal("First", merr.Schema)
	}
}

func TestUnionDocMismatch(t *testing.T) {
	assert := assert.New(t)

	a, err := Lower(nil, "Thing", parseNode(t, "{type: string, description: one}"))
	require.NoError(t, err)
	b, err := Lower(nil, "Thing", parseNode(t, "{type: integer, description: two}"))
	require.NoError(t, err)
	c, err := Lower(nil, "Thing", parseNode(t, "type: boolean"))
	require.NoError(t, err)

	_, err = Union(*a, *b)
	assert.ErrorIs(err, ErrDocMismatch)

	// an empty doc is compatible with anything
	d, err := Union(*c, *a)
	require.NoError(t, err)
	assert.Equal("one", d.Doc)
	assert.Equal("bool|String", d.Type.String())
}

func TestUnionBranchErrorPropagates(t *testing.T) {
	assert := assert.New(t)

	_, err := Lower(nil, "Thing", parseNode(t, "type: [string, object]"))
	var lerr *LoweringError
	if assert.True(errors.As(err, &lerr)) {
		assert.Equal(schema.Object, lerr.Category)
	}
	assert.ErrorIs(err, ErrUnsupported)
}

func TestUnionRefold(t *testing.T) {
	assert := assert.New(t)

	node := parseNode(t, "type: [integer, string, \"null\"]")
	d, err := Lower(nil, "Mixed", node)
	require.NoError(t, err)

	// folding an already folded declaration keeps its alternatives
	again, err := Union(*d)
	require.NoError(t, err)
	assert.Equal(d.Type.String(), again.Type.String())
	assert.True(again.Optional)
}
