package entry

import (
	"os"
	"os/user"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"
)

// The oracle classifies the calling process against a file's owner before
// selecting which rwx triple applies. Classification works on names from the
// password and group databases: the owner's username is matched first against
// the caller's username and then against the caller's primary group name.
type permClass int

const (
	classOwner permClass = iota
	classGroup
	classOther
)

var caller struct {
	once      sync.Once
	uid       int
	username  string
	groupname string
}

func callerIdentity() (int, string, string) {
	caller.once.Do(func() {
		caller.uid = os.Getuid()
		caller.username = nameForUid(uint32(caller.uid))
		caller.groupname = nameForGid(uint32(os.Getgid()))
	})
	return caller.uid, caller.username, caller.groupname
}

func nameForUid(uid uint32) string {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(uid), 10)
	}
	return u.Username
}

func nameForGid(gid uint32) string {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(gid), 10)
	}
	return g.Name
}

// NameForUid resolves a uid to a username, falling back to the numeric form.
func NameForUid(uid uint32) string { return nameForUid(uid) }

// NameForGid resolves a gid to a group name, falling back to the numeric form.
func NameForGid(gid uint32) string { return nameForGid(gid) }

func classify(a *Attr) permClass {
	_, username, groupname := callerIdentity()
	owner := nameForUid(a.Uid())
	if owner == username {
		return classOwner
	}
	if owner == groupname {
		return classGroup
	}
	return classOther
}

// checkBits verifies that every requested permission bit is present in the
// triple selected by the caller's class.
func checkBits(a *Attr, read, write, exec bool) bool {
	var rb, wb, xb uint32
	switch classify(a) {
	case classOwner:
		rb, wb, xb = unix.S_IRUSR, unix.S_IWUSR, unix.S_IXUSR
	case classGroup:
		rb, wb, xb = unix.S_IRGRP, unix.S_IWGRP, unix.S_IXGRP
	default:
		rb, wb, xb = unix.S_IROTH, unix.S_IWOTH, unix.S_IXOTH
	}
	m := a.mode()
	if read && m&rb == 0 {
		return false
	}
	if write && m&wb == 0 {
		return false
	}
	if exec && m&xb == 0 {
		return false
	}
	return true
}

func callerIsRoot() bool {
	uid, _, _ := callerIdentity()
	return uid == 0
}

// DirReadable decides whether the caller may enumerate the directory at e.
// Reading a directory requires read and execute on the entry itself plus the
// same on every ancestor; the recursion terminates at the root's nil parent.
func DirReadable(e *Entry) bool {
	if e == nil {
		return true
	}
	if callerIsRoot() {
		return true
	}
	if !e.Located() {
		return false
	}
	if !checkBits(e.Attr, true, false, true) {
		return false
	}
	return DirReadable(e.prev)
}

// DirWritable decides whether the caller may create or remove children of
// the directory at e. It subsumes DirReadable on the entry itself.
func DirWritable(e *Entry) bool {
	if e == nil {
		return true
	}
	if callerIsRoot() {
		return true
	}
	if !DirReadable(e) {
		return false
	}
	return checkBits(e.Attr, false, true, false)
}

// FileReadable decides whether the caller may open e for reading.
func FileReadable(e *Entry) bool {
	if callerIsRoot() {
		return true
	}
	if !DirReadable(e.prev) {
		return false
	}
	if !e.Located() {
		return false
	}
	return checkBits(e.Attr, true, false, false)
}

// FileWritable decides whether the caller may open e for writing. The parent
// chain must be both traversable and writable, since overwriting ultimately
// replaces a directory child.
func FileWritable(e *Entry) bool {
	if callerIsRoot() {
		return true
	}
	if !DirReadable(e.prev) || !DirWritable(e.prev) {
		return false
	}
	if !e.Located() {
		return false
	}
	return checkBits(e.Attr, false, true, false)
}

// FileExecutable decides whether the caller may exec e.
func FileExecutable(e *Entry) bool {
	if callerIsRoot() {
		return true
	}
	if !DirReadable(e.prev) {
		return false
	}
	if !e.Located() {
		return false
	}
	return checkBits(e.Attr, false, false, true)
}
