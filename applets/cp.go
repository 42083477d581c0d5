package applets

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/skiffshell/skiff/entry"
)

func cpMatchOption(ctx *Context, arg string, opts optionSet) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}
	if strings.HasPrefix(arg, "--") {
		switch arg[2:] {
		case "interactive":
			opts['i'] = true
		case "recursively":
			opts['r'] = true
		default:
			ctx.Errorf("cp: unknown options '%s'", arg)
			return true, false
		}
		return true, true
	}
	for i := 1; i < len(arg); i++ {
		switch arg[i] {
		case 'i':
			opts['i'] = true
		case 'r':
			opts['r'] = true
		default:
			ctx.Errorf("cp: unknown options -- '%c'", arg[i])
			return true, false
		}
	}
	return true, true
}

// cpFile copies source's bytes into a fresh destination file created with
// the source's mode.
func cpFile(ctx *Context, source, destination *entry.Entry) int {
	in, err := os.Open(source.RealPath)
	if err != nil {
		ctx.Errorf("cp: cannot open '%s'", source.Received())
		return 1
	}
	defer in.Close()

	out, err := os.OpenFile(destination.RealPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(source.Attr.Perm()))
	if err != nil {
		ctx.Errorf("cp: cannot create '%s'", destination.Received())
		return 1
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		ctx.Errorf("cp: error writing '%s'", destination.Received())
		return 1
	}
	return 0
}

func cpOverwriteFile(ctx *Context, source, destination *entry.Entry, opts optionSet) int {
	if opts['i'] && !ctx.Confirm("cp: overwrite '%s'? ", destination.Received()) {
		return 0
	}
	if err := os.Remove(destination.RealPath); err != nil {
		ctx.Errorf("cp: cannot remove '%s'", destination.Received())
		return 1
	}
	return cpFile(ctx, source, destination)
}

func cpFileOnto(ctx *Context, file, destination *entry.Entry, opts optionSet) int {
	switch {
	case !destination.Located():
		if !entry.DirWritable(destination.Prev()) {
			ctx.Errorf("cp: cannot access '%s': Permission denied", destination.Prev().Received())
			return 1
		}
		return cpFile(ctx, file, destination)
	case !destination.IsFile():
		ctx.Errorf("cp: cannot overwrite directory '%s' with non-directory '%s'", destination.Received(), file.Received())
		return 1
	default:
		if !entry.FileWritable(destination) {
			ctx.Errorf("cp: cannot access '%s': Permission denied", destination.Received())
			return 1
		}
		return cpOverwriteFile(ctx, file, destination, opts)
	}
}

func cpEmptyDir(ctx *Context, source, destination *entry.Entry) int {
	if !entry.DirWritable(destination.Prev()) {
		ctx.Errorf("cp: cannot access '%s': Permission denied", destination.Prev().Received())
		return 1
	}
	if err := os.Mkdir(destination.RealPath, os.FileMode(source.Attr.Perm())); err != nil {
		ctx.Errorf("cp: cannot create directory '%s'", destination.Received())
		return 1
	}
	return 0
}

// cpDirRecursively walks the source's children and copies each onto its
// resolved destination, descending into populated subdirectories.
func cpDirRecursively(ctx *Context, source, destination *entry.Entry, opts optionSet) int {
	if !entry.DirWritable(destination.Prev()) {
		ctx.Errorf("cp: cannot access '%s': Permission denied", destination.Prev().Received())
		return 1
	}

	names, err := godirwalk.ReadDirnames(source.RealPath, nil)
	if err != nil {
		return 1
	}
	sort.Strings(names)

	status := 0
	for _, name := range names {
		child := entry.Join(name, source)
		target, err := entry.Destination(name, destination)
		if err != nil {
			status = 1
			continue
		}

		switch {
		case child.IsFile():
			if !entry.FileReadable(child) {
				ctx.Errorf("cp: cannot access '%s': Permission denied", child.Received())
				status = 1
				continue
			}
			status |= cpFileOnto(ctx, child, target, opts)
		case !entry.DirReadable(child):
			ctx.Errorf("cp: cannot access '%s': Permission denied", child.Received())
			status = 1
		case child.IsEmptyDir():
			if !target.Located() {
				status |= cpEmptyDir(ctx, child, target)
			} else if !target.IsDir() {
				ctx.Errorf("cp: cannot overwrite non-directory '%s' with directory '%s'", target.Received(), child.Received())
				return 1
			}
		case target.Located():
			status |= cpDirRecursively(ctx, child, target, opts)
		default:
			status |= cpDirOnto(ctx, child, target, opts)
		}
	}
	return status
}

func cpDirOnto(ctx *Context, directory, destination *entry.Entry, opts optionSet) int {
	switch {
	case !destination.Located():
		if directory.IsEmptyDir() {
			return cpEmptyDir(ctx, directory, destination)
		}
		status := 0
		if err := os.Mkdir(destination.RealPath, 0o755); err != nil {
			ctx.Errorf("cp: cannot create directory '%s'", destination.Received())
			return 1
		}
		created, err := entry.Resolve(destination.RealPath)
		if err != nil {
			return 1
		}
		created.ReceivedPath = destination.Received()
		status |= cpDirRecursively(ctx, directory, created, opts)
		if err := os.Chmod(destination.RealPath, os.FileMode(directory.Attr.Perm())); err != nil {
			status = 1
		}
		return status
	case !destination.IsDir():
		ctx.Errorf("cp: cannot overwrite non-directory '%s' with directory '%s'", destination.Received(), directory.Received())
		return 1
	case !destination.IsEmptyDir():
		return cpDirRecursively(ctx, directory, destination, opts)
	default:
		return 0
	}
}

func cpEntry(ctx *Context, source, target *entry.Entry, opts optionSet) int {
	if !source.Located() {
		ctx.Errorf("cp: cannot access '%s': No such file or directory", source.Received())
		return 1
	}

	destination, err := entry.Destination(source.Filename, target)
	switch {
	case err == entry.ErrNotFound:
		ctx.Errorf("cp: cannot access '%s': No such file or directory", target.Received())
		return 1
	case err == entry.ErrNotDirectory:
		ctx.Errorf("cp: failed to access '%s': Not a directory", target.Received())
		return 1
	}

	switch {
	case entry.Same(source, destination):
		ctx.Errorf("cp: '%s' and '%s' are the same file", source.Received(), destination.Received())
		return 1
	case source.IsFile():
		if !entry.FileReadable(source) {
			ctx.Errorf("cp: cannot access '%s': Permission denied", source.Received())
			return 1
		}
		return cpFileOnto(ctx, source, destination, opts)
	case source.IsDir():
		switch {
		case !opts['r']:
			ctx.Errorf("cp: -r not specified; omitting directory '%s'", source.Received())
			return 1
		case !entry.DirReadable(source):
			ctx.Errorf("cp: cannot access '%s': Permission denied", source.Received())
			return 1
		case destination.IsInside(source):
			ctx.Errorf("cp: cannot copy a directory, '%s', into itself, '%s'", source.Received(), destination.Received())
			return 1
		default:
			return cpDirOnto(ctx, source, destination, opts)
		}
	}
	return 1
}

func cpMain(ctx *Context, args []string) int {
	opts := optionSet{}
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return cpMatchOption(ctx, arg, opts)
	})
	if !ok {
		return 1
	}
	if len(paths) == 0 {
		ctx.Errorf("cp: missing operand")
		return 1
	}
	if len(paths) == 1 {
		ctx.Errorf("cp: missing destination file operand after '%s'", paths[0])
		return 1
	}

	target, err := entry.Resolve(paths[len(paths)-1])
	if err != nil {
		ctx.Errorf("cp: %s", err)
		return 1
	}

	status := 0
	for _, path := range paths[:len(paths)-1] {
		source, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("cp: %s", err)
			status = 1
			continue
		}
		status |= cpEntry(ctx, source, target, opts)
	}
	return status
}
