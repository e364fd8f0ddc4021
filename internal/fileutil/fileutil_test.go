package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGenerated(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sub", "..", "types.d.ts")

	abs, err := WriteGenerated(target, []byte("export type A = string;\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "types.d.ts"), abs)

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "export type A = string;\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(abs)
		require.NoError(t, err)
		assert.Equal(t, ReadableByAll, info.Mode().Perm()&ReadableByAll)
	}
}

func TestWriteGenerated_RefusesSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.ts")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	link := filepath.Join(dir, "link.ts")
	require.NoError(t, os.Symlink(target, link))

	_, err := WriteGenerated(link, []byte("x"))
	assert.Error(t, err)
}

func TestWriteGenerated_MissingDirectory(t *testing.T) {
	_, err := WriteGenerated(filepath.Join(t.TempDir(), "nope", "out.ts"), []byte("x"))
	assert.Error(t, err)
}

func TestOutputPath_Relative(t *testing.T) {
	got, err := outputPath("types.d.ts")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	assert.Equal(t, "types.d.ts", filepath.Base(got))
}
