package entry

import (
	"golang.org/x/sys/unix"
)

// Attr wraps the raw stat record for a path component.
type Attr struct {
	Sys unix.Stat_t
}

// statPath stats a path and returns nil when the path cannot be reached,
// mirroring the "absent attribute" convention of the entry chain.
func statPath(path string) *Attr {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil
	}
	return &Attr{Sys: st}
}

func (a *Attr) mode() uint32 {
	return uint32(a.Sys.Mode)
}

// IsDir checks the file type bits for a directory.
func (a *Attr) IsDir() bool {
	return a.mode()&unix.S_IFMT == unix.S_IFDIR
}

// IsRegular checks the file type bits for a regular file.
func (a *Attr) IsRegular() bool {
	return a.mode()&unix.S_IFMT == unix.S_IFREG
}

// Perm returns the rwx permission bits.
func (a *Attr) Perm() uint32 {
	return a.mode() & 0o777
}

// Size returns the file size in bytes.
func (a *Attr) Size() int64 {
	return a.Sys.Size
}

// Nlink returns the hard link count.
func (a *Attr) Nlink() uint64 {
	return uint64(a.Sys.Nlink)
}

// Uid returns the owning user id.
func (a *Attr) Uid() uint32 {
	return a.Sys.Uid
}

// Gid returns the owning group id.
func (a *Attr) Gid() uint32 {
	return a.Sys.Gid
}

// TypeChar returns the single character used at the front of a long listing
// line: 'd' for directories, 'c'/'b' for device nodes, '-' otherwise.
func (a *Attr) TypeChar() byte {
	switch a.mode() & unix.S_IFMT {
	case unix.S_IFDIR:
		return 'd'
	case unix.S_IFCHR:
		return 'c'
	case unix.S_IFBLK:
		return 'b'
	default:
		return '-'
	}
}

// ModeString renders the nine rwx permission characters.
func (a *Attr) ModeString() string {
	bits := []struct {
		mask uint32
		ch   byte
	}{
		{unix.S_IRUSR, 'r'}, {unix.S_IWUSR, 'w'}, {unix.S_IXUSR, 'x'},
		{unix.S_IRGRP, 'r'}, {unix.S_IWGRP, 'w'}, {unix.S_IXGRP, 'x'},
		{unix.S_IROTH, 'r'}, {unix.S_IWOTH, 'w'}, {unix.S_IXOTH, 'x'},
	}
	out := make([]byte, 9)
	for i, b := range bits {
		if a.mode()&b.mask != 0 {
			out[i] = b.ch
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
