package applets

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(stdin string) (*Context, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Context{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCat(t *testing.T) {
	tmp := t.TempDir()

	t.Run("copies a file byte for byte", func(t *testing.T) {
		path := writeFixture(t, tmp, "foo.txt", "hello\nworld\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{path}))
		assert.Equal(t, "hello\nworld\n", stdout.String())
	})

	t.Run("numbers every line with -n", func(t *testing.T) {
		path := writeFixture(t, tmp, "n.txt", "hello\nworld\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"-n", path}))
		assert.Equal(t, "     1  hello\n     2  world\n", stdout.String())
	})

	t.Run("numbers only non-blank lines with -b", func(t *testing.T) {
		path := writeFixture(t, tmp, "b.txt", "one\n\ntwo\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"-b", path}))
		assert.Equal(t, "     1  one\n\n     2  two\n", stdout.String())
	})

	t.Run("squeezes runs of blank lines with -s", func(t *testing.T) {
		path := writeFixture(t, tmp, "s.txt", "a\n\n\n\nb\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"-s", path}))
		assert.Equal(t, "a\n\nb\n", stdout.String())
	})

	t.Run("marks line ends with -E and tabs with -T", func(t *testing.T) {
		path := writeFixture(t, tmp, "e.txt", "a\tb\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"-E", "-T", path}))
		assert.Equal(t, "a^Ib$\n", stdout.String())
	})

	t.Run("show-all combines tabs and ends", func(t *testing.T) {
		path := writeFixture(t, tmp, "all.txt", "x\ty\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"--show-all", path}))
		assert.Equal(t, "x^Iy$\n", stdout.String())
	})

	t.Run("reads standard input for dash", func(t *testing.T) {
		ctx, stdout, _ := newTestContext("from stdin\n")
		assert.Equal(t, 0, catMain(ctx, []string{"-"}))
		assert.Equal(t, "from stdin\n", stdout.String())
	})

	t.Run("separates multiple sources with a blank line", func(t *testing.T) {
		a := writeFixture(t, tmp, "first.txt", "one\n")
		b := writeFixture(t, tmp, "second.txt", "two\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{a, b}))
		assert.Equal(t, "one\n\ntwo\n", stdout.String())
	})

	t.Run("reports missing files and keeps going", func(t *testing.T) {
		path := writeFixture(t, tmp, "ok.txt", "fine\n")
		ctx, stdout, stderr := newTestContext("")
		assert.Equal(t, 1, catMain(ctx, []string{filepath.Join(tmp, "missing"), path}))
		assert.Contains(t, stderr.String(), "No such file or directory")
		assert.Equal(t, "\nfine\n", stdout.String())
	})

	t.Run("the last numbering option wins", func(t *testing.T) {
		path := writeFixture(t, tmp, "nb.txt", "one\n\ntwo\n")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"-nb", path}))
		assert.Equal(t, "     1  one\n\n     2  two\n", stdout.String())

		ctx, stdout, _ = newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{"-bn", path}))
		assert.Equal(t, "     1  one\n     2  \n     3  two\n", stdout.String())
	})

	t.Run("refuses directories", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, catMain(ctx, []string{tmp}))
		assert.Contains(t, stderr.String(), "Is a directory")
	})

	t.Run("rejects unknown options", func(t *testing.T) {
		ctx, _, stderr := newTestContext("")
		assert.Equal(t, 1, catMain(ctx, []string{"-q"}))
		assert.Contains(t, stderr.String(), "unknown options")
	})

	t.Run("handles a final line without a newline", func(t *testing.T) {
		path := writeFixture(t, tmp, "tail.txt", "no newline")
		ctx, stdout, _ := newTestContext("")
		assert.Equal(t, 0, catMain(ctx, []string{path}))
		assert.Equal(t, "no newline", stdout.String())
	})
}
