package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "orgflow", cmd.Use)
	assert.Contains(t, cmd.Long, "org chart")
}

func TestCommandPresence(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"user", "create"},
		{"catalog", "seed"},
		{"chart", "print"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
}

// run executes the root command with args against a fresh database file.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestInvalidFormat(t *testing.T) {
	t.Parallel()
	_, err := run(t, filepath.Join(t.TempDir(), "o.db"), "--format", "xml", "migrate", "version")
	require.ErrorContains(t, err, "invalid format")
}

func TestMigrateCommands(t *testing.T) {
	t.Parallel()
	db := filepath.Join(t.TempDir(), "orgflow.db")

	out, err := run(t, db, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "schema version 0\n", out)

	out, err = run(t, db, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	out, err = run(t, db, "--format", "json", "migrate", "version")
	require.NoError(t, err)
	var resp struct {
		Status string          `json:"status"`
		Data   MigrationStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, MigrationStatus{Version: 1}, resp.Data)

	_, err = run(t, db, "migrate", "down")
	require.NoError(t, err)
}

func TestUserCreate(t *testing.T) {
	t.Parallel()
	db := filepath.Join(t.TempDir(), "orgflow.db")

	out, err := run(t, db, "user", "create",
		"--username", "ada", "--email", "Ada@Example.com", "--password", "correct-horse", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "created ada <ada@example.com> as admin")

	// A second admin is fine from the CLI.
	_, err = run(t, db, "user", "create",
		"--username", "bea", "--email", "bea@example.com", "--password", "correct-horse", "--role", "admin")
	require.NoError(t, err)

	_, err = run(t, db, "user", "create",
		"--username", "ada2", "--email", "ada@example.com", "--password", "correct-horse")
	require.Error(t, err)

	_, err = run(t, db, "user", "create", "--username", "x")
	require.Error(t, err)
}

func TestCatalogSeed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	db := filepath.Join(dir, "orgflow.db")
	seed := filepath.Join(dir, "domains.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`domains:
  - name: Healthcare
    industries: [Pharma, Hospitals]
  - name: Finance
    industries:
      - Banking
`), 0o600))

	out, err := run(t, db, "catalog", "seed", "--file", seed)
	require.NoError(t, err)
	assert.Equal(t, "seeded 2 domains and 3 industries, skipped 0 existing domains\n", out)

	out, err = run(t, db, "catalog", "seed", "-f", seed)
	require.NoError(t, err)
	assert.Equal(t, "seeded 0 domains and 0 industries, skipped 2 existing domains\n", out)
}

func TestLoadSeedFileRejectsEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains: []\n"), 0o600))

	_, err := LoadSeedFile(path)
	require.Error(t, err)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestChartPrintLocal(t *testing.T) {
	t.Parallel()
	db := filepath.Join(t.TempDir(), "orgflow.db")

	out, err := run(t, db, "chart", "print")
	require.NoError(t, err)
	assert.Equal(t, "Alex Sharma (CEO)\n", out)
}

func TestChartPrintNeedsCredentials(t *testing.T) {
	t.Parallel()
	_, err := run(t, filepath.Join(t.TempDir(), "o.db"), "chart", "print", "--server", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
