package applets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdir(t *testing.T) {
	t.Run("creates a directory below an existing parent", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "fresh")
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, mkdirMain(ctx, []string{dir}))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects an existing path", func(t *testing.T) {
		tmp := t.TempDir()
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, mkdirMain(ctx, []string{tmp}))
		assert.Contains(t, stderr.String(), "File exists")
	})

	t.Run("rejects a missing parent without -p", func(t *testing.T) {
		tmp := t.TempDir()
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, mkdirMain(ctx, []string{filepath.Join(tmp, "a", "b")}))
		assert.Contains(t, stderr.String(), "No such file or directory")
	})

	t.Run("creates the whole chain with -p", func(t *testing.T) {
		tmp := t.TempDir()
		leaf := filepath.Join(tmp, "a", "b", "c")
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, mkdirMain(ctx, []string{"-p", leaf}))
		info, err := os.Stat(leaf)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("applies the requested mode to the final directory", func(t *testing.T) {
		tmp := t.TempDir()
		leaf := filepath.Join(tmp, "deep", "leaf")
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, mkdirMain(ctx, []string{"-p", "-m=700", leaf}))

		info, err := os.Stat(leaf)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

		parent, err := os.Stat(filepath.Join(tmp, "deep"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), parent.Mode().Perm())
	})

	t.Run("left-pads short octal modes", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "short")
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, mkdirMain(ctx, []string{"--mode=75", dir}))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o075), info.Mode().Perm())
	})

	t.Run("rejects malformed modes", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, mkdirMain(ctx, []string{"-m=abc", "x"}))
		assert.Contains(t, stderr.String(), "invalid mode")
	})

	t.Run("requires an operand", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, mkdirMain(ctx, []string{}))
		assert.Contains(t, stderr.String(), "missing operand")
	})
}

func TestChmod(t *testing.T) {
	t.Run("sets a bare octal mode", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeFixture(t, tmp, "f", "x")
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, chmodMain(ctx, []string{"600", path}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("appends bits with a plus form", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeFixture(t, tmp, "f", "x")
		require.NoError(t, os.Chmod(path, 0o600))
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, chmodMain(ctx, []string{"+x", path}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o711), info.Mode().Perm())
	})

	t.Run("removes bits with a minus form", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeFixture(t, tmp, "f", "x")
		require.NoError(t, os.Chmod(path, 0o664))
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, chmodMain(ctx, []string{"-w", path}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
	})

	t.Run("resets with the -u= form", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeFixture(t, tmp, "f", "x")
		require.NoError(t, os.Chmod(path, 0o777))
		ctx, _, _ := newTestContext("")
		assert.Equal(t, 0, chmodMain(ctx, []string{"-u=r", path}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
	})

	t.Run("reports missing files", func(t *testing.T) {
		tmp := t.TempDir()
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, chmodMain(ctx, []string{"600", filepath.Join(tmp, "missing")}))
		assert.Contains(t, stderr.String(), "cannot access")
	})

	t.Run("requires a mode and an operand", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, chmodMain(ctx, []string{"600"}))
		assert.Contains(t, stderr.String(), "missing operand")
	})

	t.Run("rejects malformed modes", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, chmodMain(ctx, []string{"+z", "f"}))
		assert.Contains(t, stderr.String(), "invalid mode")
	})
}

func TestRealpath(t *testing.T) {
	t.Run("prints the canonical form", func(t *testing.T) {
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, realpathMain(ctx, []string{"/a/./b/../c"}))
		assert.Equal(t, "/a/c\n", stdout.String())
	})

	t.Run("fails on missing paths with -e", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, realpathMain(ctx, []string{"-e", "/definitely/not/present"}))
		assert.Contains(t, stderr.String(), "No such file or directory")
	})

	t.Run("succeeds on missing paths with -m", func(t *testing.T) {
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, realpathMain(ctx, []string{"-m", "/definitely/not/present"}))
		assert.Equal(t, "/definitely/not/present\n", stdout.String())
	})

	t.Run("requires an operand", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, realpathMain(ctx, []string{}))
		assert.Contains(t, stderr.String(), "missing operand")
	})
}

func TestTrivialApplets(t *testing.T) {
	t.Run("echo joins arguments", func(t *testing.T) {
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, echoMain(ctx, []string{"one", "two", "three"}))
		assert.Equal(t, "one two three\n", stdout.String())
	})

	t.Run("pwd prints the working directory", func(t *testing.T) {
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, pwdMain(ctx, nil))
		cwd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, cwd+"\n", stdout.String())
	})

	t.Run("whoami prints a username", func(t *testing.T) {
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, whoamiMain(ctx, nil))
		assert.NotEmpty(t, stdout.String())
	})
}

func TestRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 11)

	cat, ok := Lookup("cat")
	require.True(t, ok)
	assert.Equal(t, "cat", cat.Name)

	_, ok = Lookup("nonesuch")
	assert.False(t, ok)
}
