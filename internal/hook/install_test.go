package hook

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallWritesExecutableHook(t *testing.T) {
	dir, _ := initRepo(t)

	path, err := Install(dir, "/usr/local/bin/devforge", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git", "hooks", "pre-commit"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#!/bin/sh")
	assert.Contains(t, string(content), `'/usr/local/bin/devforge' scan --staged`)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}
}

func TestScriptQuotesBinaryForShell(t *testing.T) {
	tests := []struct {
		binary string
		want   string
	}{
		{"/usr/local/bin/devforge", `exec '/usr/local/bin/devforge' scan`},
		{"/opt/$HOME/`id`/devforge", "exec '/opt/$HOME/`id`/devforge' scan"},
		{"/Users/o'brien/bin/devforge", `exec '/Users/o'\''brien/bin/devforge' scan`},
	}

	for _, tc := range tests {
		assert.Contains(t, string(Script(tc.binary)), tc.want, tc.binary)
	}
}

func TestInstallFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	path, err := Install(sub, "devforge", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git", "hooks", "pre-commit"), path)
}

func TestInstallIsIdempotent(t *testing.T) {
	dir, _ := initRepo(t)
	_, err := Install(dir, "devforge", false)
	require.NoError(t, err)
	_, err = Install(dir, "devforge", false)
	assert.NoError(t, err)
}

func TestInstallRefusesForeignHook(t *testing.T) {
	dir, _ := initRepo(t)
	hookPath := filepath.Join(dir, ".git", "hooks", "pre-commit")
	require.NoError(t, os.MkdirAll(filepath.Dir(hookPath), 0755))
	require.NoError(t, os.WriteFile(hookPath, []byte("#!/bin/sh\nmake lint\n"), 0755))

	_, err := Install(dir, "devforge", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	content, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nmake lint\n", string(content))

	_, err = Install(dir, "devforge", true)
	require.NoError(t, err)
	content, err = os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), hookMarker)
}

func TestInstallOutsideRepository(t *testing.T) {
	_, err := Install(t.TempDir(), "devforge", false)
	assert.Error(t, err)
}
