package applets

import (
	"os"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/skiffshell/skiff/entry"
)

func rmMatchOption(ctx *Context, arg string, opts optionSet) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}
	if strings.HasPrefix(arg, "--") {
		switch arg[2:] {
		case "recursive":
			opts['r'] = true
		case "dir":
			opts['d'] = true
		case "interactive":
			opts['i'], opts['f'] = true, false
		case "force":
			opts['f'], opts['i'] = true, false
		default:
			ctx.Errorf("rm: unknown options '%s'", arg)
			return true, false
		}
		return true, true
	}
	for i := 1; i < len(arg); i++ {
		switch arg[i] {
		case 'r', 'R':
			opts['r'] = true
		case 'd':
			opts['d'] = true
		case 'f':
			opts['f'], opts['i'] = true, false
		case 'i':
			opts['i'], opts['f'] = true, false
		default:
			ctx.Errorf("rm: unknown options -- '%c'", arg[i])
			return true, false
		}
	}
	return true, true
}

func rmFile(ctx *Context, file *entry.Entry, opts optionSet) int {
	if opts['i'] && !ctx.Confirm("rm: remove regular file '%s'? ", file.Received()) {
		return 0
	}
	if err := os.Remove(file.RealPath); err != nil {
		ctx.Errorf("rm: cannot remove '%s'", file.Received())
		return 1
	}
	return 0
}

func rmEmptyDir(ctx *Context, directory *entry.Entry, opts optionSet) int {
	if opts['i'] && !ctx.Confirm("rm: remove directory '%s'? ", directory.Received()) {
		return 0
	}
	if err := os.Remove(directory.RealPath); err != nil {
		ctx.Errorf("rm: cannot remove '%s'", directory.Received())
		return 1
	}
	return 0
}

// rmDirRecursively removes a populated directory post-order: children
// first, the directory itself last. Interactive mode asks before the
// descent and again before each removal.
func rmDirRecursively(ctx *Context, directory *entry.Entry, opts optionSet) int {
	if opts['i'] && !ctx.Confirm("rm: descend into directory '%s'? ", directory.Received()) {
		return 0
	}

	names, err := godirwalk.ReadDirnames(directory.RealPath, nil)
	if err != nil {
		return 1
	}
	sort.Strings(names)

	status := 0
	for _, name := range names {
		child := entry.Join(name, directory)
		switch {
		case child.IsFile():
			status |= rmFile(ctx, child, opts)
		case !entry.DirWritable(child):
			ctx.Errorf("rm: cannot remove '%s': Permission denied", child.Received())
			status = 1
		case child.IsEmptyDir():
			status |= rmEmptyDir(ctx, child, opts)
		default:
			status |= rmDirRecursively(ctx, child, opts)
		}
	}

	if status != 0 {
		ctx.Errorf("rm: cannot descend into directory '%s'", directory.Received())
		return 1
	}
	return rmEmptyDir(ctx, directory, opts)
}

func rmDir(ctx *Context, e *entry.Entry, opts optionSet) int {
	cwd, err := os.Getwd()
	if err != nil {
		ctx.Errorf("rm: %s", err)
		return 1
	}
	wd, err := entry.Resolve(cwd)
	if err != nil {
		ctx.Errorf("rm: %s", err)
		return 1
	}

	switch {
	case !opts['d'] && !opts['r']:
		ctx.Errorf("rm: cannot remove '%s': Is a directory", e.Received())
		return 1
	case opts['d'] && !opts['r'] && !e.IsEmptyDir():
		ctx.Errorf("rm: cannot remove '%s': Directory not empty", e.Received())
		return 1
	case entry.Same(wd, e) || wd.IsInside(e):
		ctx.Errorf("rm: cannot remove '%s': Device or resource busy", e.Received())
		return 1
	case !entry.DirWritable(e):
		ctx.Errorf("rm: cannot remove '%s': Permission denied", e.Received())
		return 1
	case e.IsEmptyDir():
		return rmEmptyDir(ctx, e, opts)
	default:
		return rmDirRecursively(ctx, e, opts)
	}
}

func rmEntry(ctx *Context, e *entry.Entry, opts optionSet) int {
	switch {
	case !e.Located():
		if opts['f'] {
			return 0
		}
		ctx.Errorf("rm: cannot access '%s': No such file or directory", e.Received())
		return 1
	case e.IsFile():
		if !entry.FileWritable(e) {
			ctx.Errorf("rm: cannot remove file '%s': Permission denied", e.Received())
			return 1
		}
		return rmFile(ctx, e, opts)
	default:
		return rmDir(ctx, e, opts)
	}
}

func rmMain(ctx *Context, args []string) int {
	opts := optionSet{}
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return rmMatchOption(ctx, arg, opts)
	})
	if !ok {
		return 1
	}
	if len(paths) == 0 {
		ctx.Errorf("rm: missing operand")
		return 1
	}

	status := 0
	for _, path := range paths {
		e, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("rm: %s", err)
			status = 1
			continue
		}
		status |= rmEntry(ctx, e, opts)
	}
	return status
}
