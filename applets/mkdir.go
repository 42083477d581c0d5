package applets

import (
	"os"
	"strings"

	"github.com/skiffshell/skiff/entry"
)

const mkdirDefaultMode = 0o755

func mkdirMatchOption(ctx *Context, arg string, opts optionSet, mode *uint32) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}

	var modeArg string
	if strings.HasPrefix(arg, "--") {
		rest := arg[2:]
		switch {
		case rest == "parent":
			opts['p'] = true
			return true, true
		case strings.HasPrefix(rest, "mode"):
			if !strings.HasPrefix(rest[4:], "=") {
				ctx.Errorf("mkdir: option requires an argument '--mode'")
				return true, false
			}
			modeArg = rest[5:]
		default:
			ctx.Errorf("mkdir: unknown options '%s'", arg)
			return true, false
		}
	} else {
		rest := arg[1:]
		switch {
		case rest == "p":
			opts['p'] = true
			return true, true
		case strings.HasPrefix(rest, "m"):
			if !strings.HasPrefix(rest[1:], "=") {
				ctx.Errorf("mkdir: option requires an argument -- 'm'")
				return true, false
			}
			modeArg = rest[2:]
		default:
			ctx.Errorf("mkdir: unknown options -- '%s'", rest)
			return true, false
		}
	}

	m, ok := parseMode(modeArg)
	if !ok {
		ctx.Errorf("mkdir: invalid mode '%s'", modeArg)
		return true, false
	}
	*mode = m
	return true, true
}

// mkdirOnce creates one directory whose parent already exists.
func mkdirOnce(ctx *Context, e *entry.Entry, mode uint32) int {
	if !e.Prev().IsDir() {
		ctx.Errorf("mkdir: cannot create directory '%s': No such file or directory", e.Received())
		return 1
	}
	if !entry.DirWritable(e.Prev()) {
		ctx.Errorf("mkdir: cannot create directory '%s': Permission denied", e.Received())
		return 1
	}
	if err := os.Mkdir(e.RealPath, os.FileMode(mode)); err != nil {
		ctx.Errorf("mkdir: cannot create directory '%s'", e.Received())
		return 1
	}
	if err := os.Chmod(e.RealPath, os.FileMode(mode)); err != nil {
		return 1
	}
	return 0
}

// mkdirRecursively re-resolves each prefix of the requested path in turn,
// creating the missing links with the default mode. The requested mode is
// applied to the final directory only, after the walk.
func mkdirRecursively(ctx *Context, e *entry.Entry, mode uint32) int {
	received := e.Received()
	prefix := ""
	if strings.HasPrefix(received, "/") {
		prefix = "/"
	}

	var names []string
	for _, t := range strings.Split(received, "/") {
		if t != "" {
			names = append(names, t)
		}
	}
	if len(names) == 0 {
		ctx.Errorf("mkdir: cannot create directory '/': File exists")
		return 1
	}

	status := 0
	for _, name := range names {
		prefix += name + "/"
		if name == "." || name == ".." {
			continue
		}
		sub, err := entry.Resolve(prefix)
		if err != nil {
			ctx.Errorf("mkdir: %s", err)
			return 1
		}
		if sub.Located() {
			if sub.IsDir() {
				continue
			}
			ctx.Errorf("mkdir: cannot create directory '%s': Not a directory", sub.Received())
			return 1
		}
		status |= mkdirOnce(ctx, sub, mkdirDefaultMode)
	}

	if err := os.Chmod(e.RealPath, os.FileMode(mode)); err != nil {
		return 1
	}
	return status
}

func mkdirEntry(ctx *Context, e *entry.Entry, mode uint32, opts optionSet) int {
	if e.Located() {
		ctx.Errorf("mkdir: cannot create directory '%s': File exists", e.Received())
		return 1
	}
	if e.Prev().Located() {
		return mkdirOnce(ctx, e, mode)
	}
	if !opts['p'] {
		ctx.Errorf("mkdir: cannot create directory '%s': No such file or directory", e.Received())
		return 1
	}
	return mkdirRecursively(ctx, e, mode)
}

func mkdirMain(ctx *Context, args []string) int {
	opts := optionSet{}
	mode := uint32(mkdirDefaultMode)
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return mkdirMatchOption(ctx, arg, opts, &mode)
	})
	if !ok {
		return 1
	}
	if len(paths) == 0 {
		ctx.Errorf("mkdir: missing operand")
		return 1
	}

	status := 0
	for _, path := range paths {
		e, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("mkdir: %s", err)
			status = 1
			continue
		}
		status |= mkdirEntry(ctx, e, mode, opts)
	}
	return status
}
