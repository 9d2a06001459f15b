package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheninja/wheninja/internal/progress"
)

// execute runs the root command against a private database and state dir.
func execute(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WHENINJA_LOG_FILE", filepath.Join(dir, "wheninja.log"))
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	full := append([]string{args[0],
		"--db", filepath.Join(dir, "test.db"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--catalog", "",
	}, args[1:]...)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores flag defaults left over from earlier executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wheninja "))
}

func TestStatsOnFreshDatabase(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Level:     1")
	assert.Contains(t, out, "0 answers logged")
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backup := filepath.Join(dir, "backup.json")

	out, err := execute(t, dir, "", "export", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version"`)

	out, err = execute(t, dir, "", "import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored level 1")
}

func TestExportHelpNamesDefaultFile(t *testing.T) {
	name := progress.BackupFileName(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	pattern := strings.Replace(name, "2026-01-02", "YYYY-MM-DD", 1)
	assert.Contains(t, exportCmd.Long, pattern)
}

func TestImportRejectsInvalidBackup(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"exportDate":"x"}`), 0o644))

	_, err := execute(t, dir, "", "import", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backup file")
}

func TestResetAsksForConfirmation(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = execute(t, dir, "", "reset", "--yes", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "history records deleted")
}

func TestEncodeCatalogRejectsInvalidDataset(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ds.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"questions": "nope"}`), 0o644))

	_, err := execute(t, dir, "", "encode-catalog", in, "-o", filepath.Join(dir, "out.b64"))
	assert.Error(t, err)
}
