package entry

import "time"

// Changed returns the inode change time, which long listings use as the
// displayed timestamp.
func (a *Attr) Changed() time.Time {
	return time.Unix(a.Sys.Ctimespec.Sec, a.Sys.Ctimespec.Nsec)
}
