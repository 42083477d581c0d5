package entry

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/franela/goblin"
)

func TestPermissionOracle(t *testing.T) {
	g := Goblin(t)
	root := os.Getuid() == 0
	tmp := t.TempDir()

	g.Describe("missing entries", func() {
		g.It("answers false for every query unless the caller is root", func() {
			e, err := Resolve(filepath.Join(tmp, "ghost"))
			g.Assert(err).IsNil()
			g.Assert(e.Located()).IsFalse()

			g.Assert(DirReadable(e)).Equal(root)
			g.Assert(DirWritable(e)).Equal(root)
			g.Assert(FileReadable(e)).Equal(root)
			g.Assert(FileWritable(e)).Equal(root)
			g.Assert(FileExecutable(e)).Equal(root)
		})
	})

	g.Describe("owned files", func() {
		g.It("honors the owner rwx triple", func() {
			file := filepath.Join(tmp, "mine")
			g.Assert(os.WriteFile(file, []byte("data"), 0o600)).IsNil()

			e, err := Resolve(file)
			g.Assert(err).IsNil()
			g.Assert(FileReadable(e)).IsTrue()
			g.Assert(FileWritable(e)).IsTrue()
			g.Assert(FileExecutable(e)).Equal(root)
		})

		g.It("denies reads the mode forbids", func() {
			if root {
				// uid 0 bypasses the mode bits entirely.
				return
			}
			file := filepath.Join(tmp, "locked")
			g.Assert(os.WriteFile(file, []byte("data"), 0o000)).IsNil()

			e, err := Resolve(file)
			g.Assert(err).IsNil()
			g.Assert(FileReadable(e)).IsFalse()
			g.Assert(FileWritable(e)).IsFalse()
			g.Assert(FileExecutable(e)).IsFalse()
		})
	})

	g.Describe("directories", func() {
		g.It("requires read and execute together for traversal", func() {
			if root {
				return
			}
			dir := filepath.Join(tmp, "noexec")
			g.Assert(os.Mkdir(dir, 0o600)).IsNil()
			defer os.Chmod(dir, 0o755)

			e, err := Resolve(dir)
			g.Assert(err).IsNil()
			g.Assert(DirReadable(e)).IsFalse()
		})

		g.It("propagates an unreadable ancestor to every descendant", func() {
			if root {
				return
			}
			outer := filepath.Join(tmp, "outer")
			inner := filepath.Join(outer, "inner")
			g.Assert(os.MkdirAll(inner, 0o755)).IsNil()
			file := filepath.Join(inner, "f")
			g.Assert(os.WriteFile(file, []byte("x"), 0o644)).IsNil()
			g.Assert(os.Chmod(outer, 0o600)).IsNil()
			defer os.Chmod(outer, 0o755)

			e, err := Resolve(file)
			g.Assert(err).IsNil()
			g.Assert(FileReadable(e)).IsFalse()
		})

		g.It("allows writes into an owned writable directory", func() {
			dir := filepath.Join(tmp, "writable")
			g.Assert(os.Mkdir(dir, 0o755)).IsNil()

			e, err := Resolve(dir)
			g.Assert(err).IsNil()
			g.Assert(DirReadable(e)).IsTrue()
			g.Assert(DirWritable(e)).IsTrue()
		})
	})
}
