package entry

import (
	"strings"

	"emperror.dev/errors"
)

const (
	// ErrNotFound is returned when a destination path cannot be reached
	// because its parent does not exist.
	ErrNotFound = errors.Sentinel("entry: no such file or directory")
	// ErrNotDirectory is returned when a destination path names an existing
	// non-directory.
	ErrNotDirectory = errors.Sentinel("entry: not a directory")
)

// Join appends filename as a child of target and returns the new tail. The
// ancestor spine is deep-copied from target, so the result shares no memory
// with its input. The new tail is stat()ed and carries a received path built
// from the target's, keeping error messages in the caller's own spelling.
func Join(filename string, target *Entry) *Entry {
	spine := target.Dup()

	rp := target.RealPath
	if rp == "/" {
		rp += filename
	} else {
		rp += "/" + filename
	}

	recv := target.Received()
	if strings.HasSuffix(recv, "/") {
		recv += filename
	} else {
		recv += "/" + filename
	}

	child := &Entry{
		Filename:     filename,
		ReceivedPath: recv,
		RealPath:     rp,
		Attr:         statPath(rp),
		prev:         spine,
	}
	spine.next = child
	return child
}

// Destination picks the concrete destination chain for an operation that
// moves or copies a source named filename onto target:
//
//   - target missing with an existing parent: the target path itself names
//     the destination;
//   - target missing with a missing parent: ErrNotFound;
//   - target is a directory: the destination is target/filename;
//   - target exists but is not a directory: ErrNotDirectory.
func Destination(filename string, target *Entry) (*Entry, error) {
	if !target.Located() {
		if target.Prev().Located() {
			return target.Dup(), nil
		}
		return nil, ErrNotFound
	}
	if !target.IsDir() {
		return nil, ErrNotDirectory
	}
	return Join(filename, target), nil
}
