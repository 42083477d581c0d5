package entry

import (
	"os"
	"strings"

	"emperror.dev/errors"
	"github.com/karrick/godirwalk"
)

// Entry is a single component of a resolved path. Entries are linked into a
// chain whose head is always the filesystem root and whose tail is the
// component the caller actually named. The chain is read-only once built.
type Entry struct {
	// Filename is the bare component name. The root entry uses "/".
	Filename string
	// ReceivedPath holds the path string exactly as the caller supplied it.
	// It is only populated on the tail entry and is used for user-facing
	// error messages.
	ReceivedPath string
	// RealPath is the canonical absolute path of this component.
	RealPath string
	// Attr is the stat record for RealPath, or nil if the component does
	// not currently exist on disk.
	Attr *Attr

	prev *Entry
	next *Entry
}

// Prev returns the parent component, or nil when called on the root.
func (e *Entry) Prev() *Entry {
	return e.prev
}

// Next returns the child component, or nil when called on the tail.
func (e *Entry) Next() *Entry {
	return e.next
}

// IsRoot checks if this entry is the head of its chain.
func (e *Entry) IsRoot() bool {
	return e.prev == nil
}

// Resolve canonicalises a raw path into an entry chain and returns the tail.
// Relative paths are anchored at the current working directory. "." and ".."
// components are folded lexically, never by consulting the filesystem, and
// ".." components that would climb past the root are discarded. Every
// surviving component is stat()ed; components that do not exist stay in the
// chain with a nil Attr so callers can still reason about the full depth of
// the request.
func Resolve(path string) (*Entry, error) {
	full := path
	if !strings.HasPrefix(path, "/") {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "entry: failed to determine working directory")
		}
		full = cwd + "/" + path
	}

	names := fold(split(full))

	head := &Entry{Filename: "/", RealPath: "/", Attr: statPath("/")}
	tail := head
	for _, name := range names {
		rp := tail.RealPath
		if rp == "/" {
			rp += name
		} else {
			rp += "/" + name
		}
		e := &Entry{Filename: name, RealPath: rp, Attr: statPath(rp), prev: tail}
		tail.next = e
		tail = e
	}
	tail.ReceivedPath = path

	return tail, nil
}

// split breaks an absolute path into its component names, dropping the empty
// tokens produced by doubled or trailing slashes.
func split(path string) []string {
	var names []string
	for _, t := range strings.Split(path, "/") {
		if t != "" {
			names = append(names, t)
		}
	}
	return names
}

// fold removes "." components and cancels each ".." against the component to
// its left. The walk runs right to left carrying a count of parents still to
// cancel, so "a/b/../c" folds to "a/c" without touching the filesystem.
func fold(names []string) []string {
	kept := make([]string, 0, len(names))
	pending := 0
	for i := len(names) - 1; i >= 0; i-- {
		switch names[i] {
		case ".":
		case "..":
			pending++
		default:
			if pending > 0 {
				pending--
				continue
			}
			kept = append(kept, names[i])
		}
	}
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return kept
}

// Received returns the path to show the user for this entry: the as-typed
// string when this entry carries one, the canonical path otherwise.
func (e *Entry) Received() string {
	if e.ReceivedPath != "" {
		return e.ReceivedPath
	}
	return e.RealPath
}

// Located checks whether the component exists on disk.
func (e *Entry) Located() bool {
	return e != nil && e.Attr != nil
}

// IsFile checks for an existing regular file.
func (e *Entry) IsFile() bool {
	return e.Located() && e.Attr.IsRegular()
}

// IsDir checks for an existing directory.
func (e *Entry) IsDir() bool {
	return e.Located() && e.Attr.IsDir()
}

// IsEmptyDir checks for an existing directory with no children.
func (e *Entry) IsEmptyDir() bool {
	if !e.IsDir() {
		return false
	}
	names, err := godirwalk.ReadDirnames(e.RealPath, nil)
	return err == nil && len(names) == 0
}

// Same reports whether two entries denote the same canonical path.
func Same(a, b *Entry) bool {
	return a.RealPath == b.RealPath
}

// IsInside reports whether e lies at or below dir. The comparison walks both
// chains component-wise: dir's chain must be a prefix of e's chain.
func (e *Entry) IsInside(dir *Entry) bool {
	p, q := e, dir
	skip := p.depth() - q.depth()
	if skip < 0 {
		return false
	}
	for ; skip > 0; skip-- {
		p = p.prev
	}
	for q != nil {
		if p.Filename != q.Filename {
			return false
		}
		p, q = p.prev, q.prev
	}
	return true
}

func (e *Entry) depth() int {
	n := 0
	for p := e; p != nil; p = p.prev {
		n++
	}
	return n
}

// Dup deep-copies the whole chain ending at e and returns the copied tail.
// The copy shares no memory with the source.
func (e *Entry) Dup() *Entry {
	var tail, child *Entry
	for src := e; src != nil; src = src.prev {
		cp := &Entry{
			Filename:     src.Filename,
			ReceivedPath: src.ReceivedPath,
			RealPath:     src.RealPath,
			next:         child,
		}
		if src.Attr != nil {
			a := *src.Attr
			cp.Attr = &a
		}
		if child != nil {
			child.prev = cp
		}
		if tail == nil {
			tail = cp
		}
		child = cp
	}
	return tail
}
