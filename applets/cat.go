package applets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skiffshell/skiff/entry"
)

func catMatchOption(ctx *Context, arg string, opts optionSet) (bool, bool) {
	if !isOptionArg(arg) {
		return false, true
	}
	if strings.HasPrefix(arg, "--") {
		switch arg[2:] {
		case "show-all":
			opts['t'], opts['e'] = true, true
		case "number-nonblank":
			opts['b'], opts['n'] = true, false
		case "show-ends":
			opts['e'] = true
		case "number":
			opts['n'], opts['b'] = true, false
		case "squeeze-blank":
			opts['s'] = true
		case "show-tabs":
			opts['t'] = true
		default:
			ctx.Errorf("cat: unknown options '%s'", arg)
			return true, false
		}
		return true, true
	}
	for i := 1; i < len(arg); i++ {
		switch arg[i] {
		case 'A':
			opts['t'], opts['e'] = true, true
		case 'b':
			opts['b'], opts['n'] = true, false
		case 'e', 'E':
			opts['e'] = true
		case 'n':
			opts['n'], opts['b'] = true, false
		case 's':
			opts['s'] = true
		case 't', 'T':
			opts['t'] = true
		default:
			ctx.Errorf("cat: unknown options -- '%c'", arg[i])
			return true, false
		}
	}
	return true, true
}

func catOpen(ctx *Context, path string) (io.ReadCloser, int) {
	if path == "-" {
		return io.NopCloser(ctx.Stdin), 0
	}
	e, err := entry.Resolve(path)
	if err != nil {
		ctx.Errorf("cat: %s", err)
		return nil, 1
	}
	switch {
	case !e.Located():
		ctx.Errorf("cat: %s: No such file or directory", e.Received())
		return nil, 1
	case e.IsDir():
		ctx.Errorf("cat: %s: Is a directory", e.Received())
		return nil, 1
	case !entry.FileReadable(e):
		ctx.Errorf("cat: cannot open '%s': Permission denied", e.Received())
		return nil, 1
	}
	f, err := os.Open(e.RealPath)
	if err != nil {
		ctx.Errorf("cat: cannot open '%s'", e.Received())
		return nil, 1
	}
	return f, 0
}

func catShow(ctx *Context, r io.Reader, opts optionSet) {
	br := bufio.NewReader(r)
	lineNumber := 1
	emptyRun := 0
	for {
		line, err := br.ReadString('\n')
		if line == "" && err != nil {
			return
		}

		if opts['s'] {
			if line == "\n" {
				emptyRun++
				if emptyRun > 1 {
					continue
				}
			} else {
				emptyRun = 0
			}
		}

		out := line
		if opts['n'] || (opts['b'] && out != "\n") {
			out = fmt.Sprintf("%6d  %s", lineNumber, out)
			lineNumber++
		}
		if opts['e'] && strings.HasSuffix(out, "\n") {
			out = out[:len(out)-1] + "$\n"
		}
		if opts['t'] {
			out = strings.ReplaceAll(out, "\t", "^I")
		}

		io.WriteString(ctx.Stdout, out)
		if err != nil {
			return
		}
	}
}

func catMain(ctx *Context, args []string) int {
	opts := optionSet{}
	paths, ok := splitOperands(args, func(arg string) (bool, bool) {
		if arg == "-" {
			return false, true
		}
		return catMatchOption(ctx, arg, opts)
	})
	if !ok {
		return 1
	}
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	status := 0
	for i, path := range paths {
		r, rc := catOpen(ctx, path)
		if rc != 0 {
			status = 1
		} else {
			catShow(ctx, r, opts)
			r.Close()
		}
		if i < len(paths)-1 {
			io.WriteString(ctx.Stdout, "\n")
		}
	}
	return status
}
