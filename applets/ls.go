package applets

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/skiffshell/skiff/entry"
)

func lsMatchOption(ctx *Context, arg string, opts optionSet) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}
	if strings.HasPrefix(arg, "--") {
		switch arg[2:] {
		case "all":
			opts['a'] = true
		default:
			ctx.Errorf("ls: unknown options '%s'", arg)
			return true, false
		}
		return true, true
	}
	for i := 1; i < len(arg); i++ {
		switch arg[i] {
		case 'a':
			opts['a'] = true
		case 'l':
			opts['l'] = true
		case 'p':
			opts['p'] = true
		default:
			ctx.Errorf("ls: unknown options -- '%c'", arg[i])
			return true, false
		}
	}
	return true, true
}

// lsLongLine renders the long-listing columns for one entry, without the
// trailing name.
func lsLongLine(ctx *Context, e *entry.Entry) {
	a := e.Attr
	fmt.Fprintf(ctx.Stdout, "%c%s %d %s %s %5d %s ",
		a.TypeChar(),
		a.ModeString(),
		a.Nlink(),
		entry.NameForUid(a.Uid()),
		entry.NameForGid(a.Gid()),
		a.Size(),
		a.Changed().Format("02-01-2006 15:04"),
	)
}

// lsBlocksTotal prints the "total N" header: the sum of per-entry block
// counts with the page size as the block unit, scaled by four.
func lsBlocksTotal(ctx *Context, dir *entry.Entry, names []string, opts optionSet) {
	pageSize := int64(os.Getpagesize())
	var total int64
	for _, name := range names {
		if strings.HasPrefix(name, ".") && !opts['a'] {
			continue
		}
		child := entry.Join(name, dir)
		if !child.Located() {
			continue
		}
		blocks := child.Attr.Size() / pageSize
		if child.Attr.Size()%pageSize != 0 {
			blocks++
		}
		total += blocks
	}
	fmt.Fprintf(ctx.Stdout, "total %d\n", 4*total)
}

func lsDirectory(ctx *Context, dir *entry.Entry, opts optionSet) int {
	names, err := godirwalk.ReadDirnames(dir.RealPath, nil)
	if err != nil {
		ctx.Errorf("ls: cannot open directory '%s'", dir.Received())
		return 1
	}
	sort.Strings(names)

	if opts['l'] {
		lsBlocksTotal(ctx, dir, names, opts)
	}

	status := 0
	for _, name := range names {
		if strings.HasPrefix(name, ".") && !opts['a'] {
			continue
		}
		child := entry.Join(name, dir)
		if opts['l'] {
			if !child.Located() {
				status = 1
				continue
			}
			lsLongLine(ctx, child)
		}
		if opts['p'] && child.IsDir() {
			fmt.Fprintf(ctx.Stdout, "%s/\n", name)
			continue
		}
		fmt.Fprintf(ctx.Stdout, "%s\n", name)
	}
	return status
}

func lsFile(ctx *Context, e *entry.Entry, opts optionSet) int {
	if opts['l'] {
		lsLongLine(ctx, e)
	}
	fmt.Fprintf(ctx.Stdout, "%s\n", e.Filename)
	return 0
}

func lsEntry(ctx *Context, e *entry.Entry, opts optionSet) int {
	switch {
	case !e.Located():
		ctx.Errorf("ls: cannot access '%s': No such file or directory", e.Received())
		return 1
	case e.IsDir():
		if !entry.DirReadable(e) {
			ctx.Errorf("ls: cannot access '%s': Permission denied", e.Received())
			return 1
		}
		return lsDirectory(ctx, e, opts)
	default:
		if !entry.FileReadable(e) {
			ctx.Errorf("ls: cannot access '%s': Permission denied", e.Received())
			return 1
		}
		return lsFile(ctx, e, opts)
	}
}

func lsMain(ctx *Context, args []string) int {
	opts := optionSet{}
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return lsMatchOption(ctx, arg, opts)
	})
	if !ok {
		return 1
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	status := 0
	for _, path := range paths {
		e, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("ls: %s", err)
			status = 1
			continue
		}
		header := e.IsDir() && len(paths) > 1
		if header {
			fmt.Fprintf(ctx.Stdout, "%s:\n", path)
		}
		status |= lsEntry(ctx, e, opts)
		if header {
			fmt.Fprintln(ctx.Stdout)
		}
	}
	return status
}
