// File path: internal/cli/env_test.go
package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestEnvTemplateGolden(t *testing.T) {
	t.Parallel()

	g := goldie.New(t)
	g.Assert(t, "env_template", []byte(envTemplate))
}

func TestEnsureEnvFileCreates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	created, err := ensureEnvFile(path)
	require.NoError(t, err)
	require.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, envTemplate, string(data))
}

func TestEnsureEnvFileLeavesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_API_ID=42\n"), 0o600))

	created, err := ensureEnvFile(path)
	require.NoError(t, err)
	require.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "TELEGRAM_API_ID=42\n", string(data))
}
