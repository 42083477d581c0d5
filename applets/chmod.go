package applets

import (
	"os"
	"strings"

	"github.com/skiffshell/skiff/entry"
)

type modeChange int

const (
	modeSet modeChange = iota
	modeAppend
	modeRemove
)

// chmodMatchMode recognises the mode argument forms: "-u=BITS" resets,
// "-BITS" removes, "+BITS" appends, and a bare octal or rwx string sets the
// mode outright. Anything else is a path operand.
func chmodMatchMode(ctx *Context, arg string, mode *uint32, change *modeChange, seen *bool) (bool, bool) {
	var spec string
	var ch modeChange

	switch {
	case strings.HasPrefix(arg, "-u="):
		spec, ch = arg[3:], modeSet
	case strings.HasPrefix(arg, "-"):
		spec, ch = arg[1:], modeRemove
	case strings.HasPrefix(arg, "+"):
		spec, ch = arg[1:], modeAppend
	default:
		if *seen {
			return false, true
		}
		m, ok := parseMode(arg)
		if !ok {
			return false, true
		}
		*mode, *change, *seen = m, modeSet, true
		return true, true
	}

	if spec == "" {
		*mode, *change, *seen = 0, ch, true
		return true, true
	}
	m, ok := parseMode(spec)
	if !ok {
		ctx.Errorf("chmod: invalid mode '%s'", spec)
		return true, false
	}
	*mode, *change, *seen = m, ch, true
	return true, true
}

func chmodEntry(ctx *Context, e *entry.Entry, mode uint32, change modeChange) int {
	if !e.Located() {
		ctx.Errorf("chmod: cannot access '%s': No such file or directory", e.Received())
		return 1
	}

	next := mode
	switch change {
	case modeAppend:
		next = e.Attr.Perm() | mode
	case modeRemove:
		next = e.Attr.Perm() &^ mode
	}

	if err := os.Chmod(e.RealPath, os.FileMode(next)); err != nil {
		ctx.Errorf("chmod: cannot access '%s'", e.Received())
		return 1
	}
	return 0
}

func chmodMain(ctx *Context, args []string) int {
	var (
		mode   uint32
		change modeChange
		seen   bool
	)
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return chmodMatchMode(ctx, arg, &mode, &change, &seen)
	})
	if !ok {
		return 1
	}
	if !seen || len(paths) == 0 {
		ctx.Errorf("chmod: missing operand")
		return 1
	}

	status := 0
	for _, path := range paths {
		e, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("chmod: %s", err)
			status = 1
			continue
		}
		status |= chmodEntry(ctx, e, mode, change)
	}
	return status
}
