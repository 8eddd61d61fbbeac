package codegen

import (
	"bytes"
	"context"
	"testing"

	"github.com/bluesky-social/oapigen/lower"
	"github.com/bluesky-social/oapigen/openapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMixed(t *testing.T) *openapi.Document {
	t.Helper()
	doc, err := openapi.Load("testdata/mixed.yaml")
	require.NoError(t, err)
	return doc
}

func TestBuildFailFast(t *testing.T) {
	g := NewGenerator(Options{}, nil)
	_, err := g.Build(context.Background(), loadMixed(t))
	assert.ErrorIs(t, err, lower.ErrUnsupported)
	assert.ErrorContains(t, err, "get /users")
}

func TestBuildSkipInvalid(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator(Options{Policy: SkipInvalid, Concurrency: 2}, nil)
	res, err := g.Build(context.Background(), loadMixed(t))
	require.NoError(t, err)

	if assert.Len(res.Skipped, 1) {
		assert.Equal("ListUsersResponse200", res.Skipped[0].Name)
		assert.ErrorIs(res.Skipped[0].Err, lower.ErrUnsupported)
	}

	var names []string
	for _, d := range res.Set.Declarations {
		names = append(names, d.Name)
	}
	// collection order survives the parallel lowering
	assert.Equal([]string{"GetTimeResponse200", "Age", "CreatedAt", "Nickname", "Timestamp"}, names)
	assert.Equal([]string{"chrono::{DateTime,Utc}", "serde::{Deserialize,Serialize}"}, res.Set.Imports.Keys())

	if assert.Len(res.Diagnostics, 1) {
		assert.Equal(lower.CodeUnknownFormat, res.Diagnostics[0].Code)
		assert.Equal("bogus", res.Diagnostics[0].Format)
	}
}

func TestGenerateJiff(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator(Options{Policy: SkipInvalid, Datetime: lower.DatetimeJiff}, nil)
	buf := new(bytes.Buffer)
	_, err := g.Generate(context.Background(), loadMixed(t), buf, "mixed.yaml")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(out, "// Code generated by oapigen from mixed.yaml. DO NOT EDIT.")
	assert.Contains(out, "use jiff::Timestamp;\n")
	assert.NotContains(out, "chrono")
	assert.Contains(out, "pub struct GetTimeResponse200(pub Timestamp);")
	assert.Contains(out, "pub struct Nickname(pub Option<String>);")
	assert.Contains(out, "pub struct Age(pub i32);")
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGenerator(Options{Policy: SkipInvalid}, nil)
	_, err := g.Build(ctx, loadMixed(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy(t *testing.T) {
	assert := assert.New(t)

	p, err := ParsePolicy("")
	assert.NoError(err)
	assert.Equal(FailFast, p)

	p, err = ParsePolicy("skip")
	assert.NoError(err)
	assert.Equal(SkipInvalid, p)

	_, err = ParsePolicy("ignore")
	assert.Error(err)
}
