package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bluesky-social/oapigen/codegen"
	"github.com/bluesky-social/oapigen/lower"
	"github.com/bluesky-social/oapigen/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../openapi/testdata/one_route_date.yaml"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestExpandArgs(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.json", "notes.txt", "sub/c.yml"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("openapi: 3.1.0\n"), 0644))
	}

	paths, err := expandArgs([]string{dir})
	require.NoError(t, err)
	assert.Equal([]string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub/c.yml"),
	}, paths)

	paths, err = expandArgs([]string{filepath.Join(dir, "notes.txt"), filepath.Join(dir, "a.yaml"), "https://example.com/api.yaml"})
	require.NoError(t, err)
	assert.Equal([]string{filepath.Join(dir, "a.yaml"), "https://example.com/api.yaml"}, paths)

	_, err = expandArgs([]string{filepath.Join(dir, "missing.yaml")})
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestOutputPath(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("out.rs", outputPath("out.rs", "api/pets.yaml", false))
	assert.Equal(filepath.Join("gen", "pet_store.rs"), outputPath("gen", "api/pet-store.yaml", true))
	assert.Equal(filepath.Join("gen", "openapi.rs"), outputPath("gen", "https://example.com/v1/openapi.json?rev=2", true))
}

func TestGenerateFile(t *testing.T) {
	assert := assert.New(t)

	out := filepath.Join(t.TempDir(), "nested", "types.rs")
	cfg := writeConfig(t, "libraries:\n  datetime: jiff\n")

	err := run([]string{"oapigen", "--config", cfg, "generate", "--output", out, fixture})
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	code := string(b)
	assert.Contains(code, "// Code generated by oapigen from one_route_date.yaml. DO NOT EDIT.")
	assert.Contains(code, "use jiff::Timestamp;")
	assert.Contains(code, "pub struct GetTimeResponse200(pub Timestamp);")
	assert.Contains(code, "pub struct UserAge(pub i64);")
	assert.Contains(code, "pub struct MaybeName(pub Option<String>);")
}

func TestGenerateRemote(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.FileServer(http.Dir("../../openapi/testdata")))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "types.rs")
	err := run([]string{"oapigen", "--config", writeConfig(t, ""), "generate", "-o", out, srv.URL + "/one_route_date.yaml"})
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(string(b), "// Code generated by oapigen from "+srv.URL+"/one_route_date.yaml. DO NOT EDIT.")
	assert.Contains(string(b), "pub struct GetTimeResponse200(pub DateTime<Utc>);")

	assert.ErrorContains(run([]string{"oapigen", "--config", writeConfig(t, ""), "watch", "-o", out, srv.URL + "/one_route_date.yaml"}), "cannot watch remote document")
}

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	assert := assert.New(t)

	out := filepath.Join(t.TempDir(), "types.rs")
	cfg := writeConfig(t, "libraries:\n  datetime: jiff\n")

	err := run([]string{"oapigen", "--config", cfg, "generate", "--datetime", "chrono", "-o", out, fixture})
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(string(b), "use chrono::{DateTime, Utc};")
	assert.NotContains(string(b), "jiff")
}

func TestGenerateErrors(t *testing.T) {
	assert := assert.New(t)

	cfg := writeConfig(t, "on_error: skip\n")
	dir := t.TempDir()

	assert.Error(run([]string{"oapigen", "--config", cfg, "generate"}))
	assert.Error(run([]string{"oapigen", "--config", cfg, "generate", "--datetime", "time", "-o", filepath.Join(dir, "x.rs"), fixture}))

	// several documents cannot share stdout
	assert.Error(run([]string{"oapigen", "--config", cfg, "generate", fixture, "../../codegen/testdata/mixed.yaml"}))

	// failed documents leave no output behind
	out := filepath.Join(dir, "mixed.rs")
	assert.Error(run([]string{"oapigen", "--config", cfg, "generate", "--on-error", "fail", "-o", out, "../../codegen/testdata/mixed.yaml"}))
	assert.NoFileExists(out)
}

func TestInspectTree(t *testing.T) {
	assert := assert.New(t)

	set := lower.Merge([]lower.Declaration{
		{Name: "Age", Kind: lower.KindAlias, Doc: "years"},
	})
	set.Declarations[0].Type, _ = lower.ResolveNumber(nil, schema.Integer, "int64")

	tree := inspectTree("api.yaml", set, []codegen.Skipped{{Name: "Bad", Origin: "components.schemas.bad", Err: lower.ErrUnsupported}}, nil)
	s := tree.String()
	assert.Contains(s, "api.yaml")
	assert.Contains(s, "[alias]")
	assert.Contains(s, "Age")
	assert.Contains(s, "type: i64")
	assert.Contains(s, "doc: years")
	assert.Contains(s, "skipped")
	assert.NotContains(s, "diagnostics")
}

func TestPrintFormats(t *testing.T) {
	assert := assert.New(t)

	buf := new(bytes.Buffer)
	printFormats(buf, lower.KnownFormats(&lower.Config{Datetime: lower.DatetimeChrono}))
	s := buf.String()
	assert.Contains(s, "int64")
	assert.Contains(s, "date-time")
	assert.Contains(s, "DateTime<Utc>")
	assert.Contains(s, "(default)")
}
