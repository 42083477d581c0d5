package applets

import (
	"os"
	"strings"

	"github.com/skiffshell/skiff/entry"
)

func mvMatchOption(ctx *Context, arg string, opts optionSet) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}
	if strings.HasPrefix(arg, "--") {
		switch arg[2:] {
		case "interactive":
			opts['i'], opts['f'] = true, false
		case "force":
			opts['f'], opts['i'] = true, false
		default:
			ctx.Errorf("mv: unknown options '%s'", arg)
			return true, false
		}
		return true, true
	}
	for i := 1; i < len(arg); i++ {
		switch arg[i] {
		case 'i':
			opts['i'], opts['f'] = true, false
		case 'f':
			opts['f'], opts['i'] = true, false
		default:
			ctx.Errorf("mv: unknown options -- '%c'", arg[i])
			return true, false
		}
	}
	return true, true
}

func mvRename(ctx *Context, source, destination *entry.Entry) int {
	if err := os.Rename(source.RealPath, destination.RealPath); err != nil {
		ctx.Errorf("mv: cannot move '%s' to '%s'", source.Received(), destination.Received())
		return 1
	}
	return 0
}

func mvOverwrite(ctx *Context, source, destination *entry.Entry, opts optionSet) int {
	if opts['i'] && !ctx.Confirm("mv: overwrite '%s'? ", destination.Received()) {
		return 0
	}
	if err := os.Remove(destination.RealPath); err != nil {
		ctx.Errorf("mv: cannot remove '%s'", destination.Received())
		return 1
	}
	return mvRename(ctx, source, destination)
}

func mvFileOnto(ctx *Context, file, destination *entry.Entry, opts optionSet) int {
	switch {
	case !destination.Located():
		if !entry.DirWritable(destination.Prev()) {
			ctx.Errorf("mv: cannot access '%s': Permission denied", destination.Prev().Received())
			return 1
		}
		return mvRename(ctx, file, destination)
	case !destination.IsFile():
		ctx.Errorf("mv: cannot overwrite directory '%s' with non-directory '%s'", destination.Received(), file.Received())
		return 1
	default:
		if !entry.FileWritable(destination) {
			ctx.Errorf("mv: cannot access '%s': Permission denied", destination.Received())
			return 1
		}
		return mvOverwrite(ctx, file, destination, opts)
	}
}

func mvDirOnto(ctx *Context, directory, destination *entry.Entry, opts optionSet) int {
	if !entry.DirWritable(destination.Prev()) {
		ctx.Errorf("mv: cannot access '%s': Permission denied", destination.Prev().Received())
		return 1
	}
	switch {
	case !destination.Located():
		return mvRename(ctx, directory, destination)
	case !destination.IsDir():
		ctx.Errorf("mv: cannot overwrite non-directory '%s' with directory '%s'", destination.Received(), directory.Received())
		return 1
	case !destination.IsEmptyDir():
		ctx.Errorf("mv: cannot move '%s' to '%s': Directory not empty", directory.Received(), destination.Received())
		return 1
	default:
		if opts['i'] && !ctx.Confirm("mv: overwrite '%s'? ", destination.Received()) {
			return 0
		}
		if err := os.Remove(destination.RealPath); err != nil {
			ctx.Errorf("mv: cannot remove '%s'", destination.Received())
			return 1
		}
		return mvRename(ctx, directory, destination)
	}
}

func mvEntry(ctx *Context, source, target *entry.Entry, opts optionSet) int {
	if !source.Located() {
		ctx.Errorf("mv: cannot access '%s': No such file or directory", source.Received())
		return 1
	}

	destination, err := entry.Destination(source.Filename, target)
	switch {
	case err == entry.ErrNotFound:
		ctx.Errorf("mv: cannot access '%s': No such file or directory", target.Received())
		return 1
	case err == entry.ErrNotDirectory:
		ctx.Errorf("mv: failed to access '%s': Not a directory", target.Received())
		return 1
	}

	if entry.Same(source, destination) {
		ctx.Errorf("mv: '%s' and '%s' are the same file", source.Received(), destination.Received())
		return 1
	}

	if source.IsFile() {
		if !entry.FileWritable(source) {
			ctx.Errorf("mv: cannot access '%s': Permission denied", source.Received())
			return 1
		}
		return mvFileOnto(ctx, source, destination, opts)
	}

	if source.IsDir() {
		cwd, err := os.Getwd()
		if err != nil {
			ctx.Errorf("mv: %s", err)
			return 1
		}
		wd, err := entry.Resolve(cwd)
		if err != nil {
			ctx.Errorf("mv: %s", err)
			return 1
		}

		switch {
		case !entry.DirWritable(source):
			ctx.Errorf("mv: cannot access '%s': Permission denied", source.Received())
			return 1
		case destination.IsInside(source):
			ctx.Errorf("mv: cannot move a directory, '%s', into itself, '%s'", source.Received(), destination.Received())
			return 1
		case entry.Same(wd, source) || wd.IsInside(source):
			ctx.Errorf("mv: cannot move '%s': Device or resource busy", source.Received())
			return 1
		default:
			return mvDirOnto(ctx, source, destination, opts)
		}
	}
	return 1
}

func mvMain(ctx *Context, args []string) int {
	opts := optionSet{}
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return mvMatchOption(ctx, arg, opts)
	})
	if !ok {
		return 1
	}
	if len(paths) < 2 {
		ctx.Errorf("mv: missing operand")
		return 1
	}

	target, err := entry.Resolve(paths[len(paths)-1])
	if err != nil {
		ctx.Errorf("mv: %s", err)
		return 1
	}

	status := 0
	for _, path := range paths[:len(paths)-1] {
		source, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("mv: %s", err)
			status = 1
			continue
		}
		status |= mvEntry(ctx, source, target, opts)
	}
	return status
}
