package shell

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCommand(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		r := NewReader(strings.NewReader("   ls -l   \n"))
		line, err := r.ReadCommand()
		require.NoError(t, err)
		assert.Equal(t, "ls -l", line)
	})

	t.Run("keeps interior whitespace", func(t *testing.T) {
		r := NewReader(strings.NewReader("echo  a\tb\n"))
		line, err := r.ReadCommand()
		require.NoError(t, err)
		assert.Equal(t, "echo  a\tb", line)
	})

	t.Run("delivers a final unterminated line before EOF", func(t *testing.T) {
		r := NewReader(strings.NewReader("pwd"))
		line, err := r.ReadCommand()
		require.NoError(t, err)
		assert.Equal(t, "pwd", line)

		_, err = r.ReadCommand()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("returns EOF on an exhausted stream", func(t *testing.T) {
		r := NewReader(strings.NewReader(""))
		_, err := r.ReadCommand()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("reads one line per call", func(t *testing.T) {
		r := NewReader(strings.NewReader("first\nsecond\n"))
		a, _ := r.ReadCommand()
		b, _ := r.ReadCommand()
		assert.Equal(t, "first", a)
		assert.Equal(t, "second", b)
	})
}

func TestReadLine(t *testing.T) {
	t.Run("preserves every byte including the newline", func(t *testing.T) {
		r := NewReader(strings.NewReader("  raw line  \nnext\n"))
		line, err := r.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "  raw line  \n", line)
	})

	t.Run("returns EOF only when nothing was read", func(t *testing.T) {
		r := NewReader(strings.NewReader("tail"))
		line, err := r.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "tail", line)

		_, err = r.ReadLine()
		assert.Equal(t, io.EOF, err)
	})
}

func TestHeredocIngestion(t *testing.T) {
	var stdout, stderr strings.Builder
	ex := &Executor{
		In:     NewReader(strings.NewReader("alpha\nbeta\nEND\n")),
		Stdout: &stdout,
		Stderr: &stderr,
	}

	blob, stripped := ex.ingestHeredocs("cat <<END")
	assert.Equal(t, "alpha\nbeta\n", blob)
	assert.Equal(t, []string{"cat"}, strings.Fields(stripped))
	assert.Contains(t, stdout.String(), "> ")
}

func TestStripRedirect(t *testing.T) {
	t.Run("removes the delimiter and target from the command", func(t *testing.T) {
		cmd, target := stripRedirect("echo hi > out.txt", ">")
		assert.Equal(t, "out.txt", target)
		assert.Equal(t, []string{"echo", "hi"}, strings.Fields(cmd))
	})

	t.Run("keeps the last target when several appear", func(t *testing.T) {
		cmd, target := stripRedirect("echo hi >> a >> b", ">>")
		assert.Equal(t, "b", target)
		assert.Equal(t, []string{"echo", "hi"}, strings.Fields(cmd))
	})
}
