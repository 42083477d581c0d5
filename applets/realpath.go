package applets

import (
	"fmt"
	"strings"

	"github.com/skiffshell/skiff/entry"
)

func realpathMatchOption(ctx *Context, arg string, opts optionSet) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}
	if strings.HasPrefix(arg, "--") {
		switch arg[2:] {
		case "canonicalize-existing":
			opts['e'], opts['m'] = true, false
		case "canonicalize-missing":
			opts['m'], opts['e'] = true, false
		default:
			ctx.Errorf("realpath: unknown options '%s'", arg)
			return true, false
		}
		return true, true
	}
	for i := 1; i < len(arg); i++ {
		switch arg[i] {
		case 'e':
			opts['e'], opts['m'] = true, false
		case 'm':
			opts['m'], opts['e'] = true, false
		default:
			ctx.Errorf("realpath: unknown options -- '%c'", arg[i])
			return true, false
		}
	}
	return true, true
}

func realpathMain(ctx *Context, args []string) int {
	opts := optionSet{}
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		return realpathMatchOption(ctx, arg, opts)
	})
	if !ok {
		return 1
	}
	if len(paths) == 0 {
		ctx.Errorf("realpath: missing operand")
		return 1
	}

	status := 0
	for _, path := range paths {
		e, err := entry.Resolve(path)
		if err != nil {
			ctx.Errorf("realpath: %s", err)
			status = 1
			continue
		}
		if opts['e'] && !e.Located() {
			ctx.Errorf("realpath: %s: No such file or directory", e.Received())
			status = 1
			continue
		}
		fmt.Fprintln(ctx.Stdout, e.RealPath)
	}
	return status
}
