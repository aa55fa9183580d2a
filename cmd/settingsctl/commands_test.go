package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "settings.db"))
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchemaAndSectors(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Business settings"`)

	out, err = run(t, "sectors", "Restaurant")
	require.NoError(t, err)
	assert.Equal(t, "restaurant\n", out)

	out, err = run(t, "sectors", "retail")
	require.NoError(t, err)
	assert.Equal(t, "(none)\n", out)
}

func TestMigrate(t *testing.T) {
	useSQLite(t)
	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema version: 1\n", out)
}

func TestSetGetExportAudit(t *testing.T) {
	dir := useSQLite(t)

	out, err := run(t, "set", "biz-1", "inventory", "reorderPoint", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "updated inventory.reorderPoint")

	out, err = run(t, "get", "biz-1", "inventory", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "reorderPoint: 5")

	_, err = run(t, "set", "biz-1", "inventory", "reorderPoint", "-1")
	assert.ErrorContains(t, err, "settings rejected")

	_, err = run(t, "set", "biz-1", "kitchen", "reorderPoint", "1")
	assert.Error(t, err)

	csvPath := filepath.Join(dir, "settings.csv")
	_, err = run(t, "export", "biz-1", "--out", csvPath)
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inventory,inventory.reorderPoint,5")

	_, err = run(t, "export", "biz-1", "--format", "pdf")
	assert.Error(t, err)

	out, err = run(t, "audit", "biz-1")
	require.NoError(t, err)
	assert.Contains(t, out, "inventory.reorderPoint")
	assert.Contains(t, out, cliActor)
}

func TestImportYAMLAndValidate(t *testing.T) {
	dir := useSQLite(t)

	_, err := run(t, "set", "biz-1", "inventory", "reorderPoint", "8")
	require.NoError(t, err)

	doc, err := run(t, "get", "biz-1", "--output", "yaml")
	require.NoError(t, err)
	yamlPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(doc), 0o600))

	out, err := run(t, "validate", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	_, err = run(t, "import", "biz-2", yamlPath)
	require.NoError(t, err)

	out, err = run(t, "get", "biz-2", "inventory")
	require.NoError(t, err)
	assert.Contains(t, out, `"reorderPoint": 8`)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"general":{}}`), 0o600))
	out, err = run(t, "validate", badPath)
	assert.Error(t, err)
	assert.Contains(t, out, "posTerminal")

	unknownPath := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknownPath, []byte(`{"kitchen":{}}`), 0o600))
	_, err = run(t, "import", "biz-3", unknownPath)
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	assert.JSONEq(t, `12.5`, string(parseValue("12.5")))
	assert.JSONEq(t, `true`, string(parseValue("true")))
	assert.JSONEq(t, `"hello world"`, string(parseValue("hello world")))
	assert.JSONEq(t, `["a","b"]`, string(parseValue(`["a","b"]`)))
}

func TestSet_NumericTextForStringField(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "set", "biz-1", "general.businessProfile", "phone", "5551234")
	require.NoError(t, err)

	out, err := run(t, "get", "biz-1", "general.businessProfile")
	require.NoError(t, err)
	assert.Contains(t, out, `"phone": "5551234"`)

	_, err = run(t, "set", "biz-1", "inventory", "reorderPoint", "plenty")
	assert.Error(t, err)
}
