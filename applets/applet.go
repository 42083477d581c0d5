// Package applets holds the utility bodies of the skiff user-land. Each
// applet is a self-contained program: it parses its own argv (combined short
// options and long forms included), resolves every operand
// through the entry engine, performs its filesystem work and reports
// failures one operand at a time, OR-ing the results into its exit status.
package applets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Context carries the process-facing streams so applets can run hermetically
// under test and against the real terminal in production.
type Context struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	br *bufio.Reader
}

// NewProcContext binds a context to the calling process's streams.
func NewProcContext() *Context {
	return &Context{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Errorf writes one diagnostic line in the "{prog}: {message}" style.
func (c *Context) Errorf(format string, a ...interface{}) {
	fmt.Fprintf(c.Stderr, format+"\n", a...)
}

// Confirm prints an inline question and reads one answer line; only a
// leading 'y' accepts.
func (c *Context) Confirm(format string, a ...interface{}) bool {
	fmt.Fprintf(c.Stdout, format, a...)
	if c.br == nil {
		c.br = bufio.NewReader(c.Stdin)
	}
	line, err := c.br.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(line, "y")
}

// Applet is one registered utility.
type Applet struct {
	Name    string
	Summary string
	Main    func(ctx *Context, args []string) int
}

var registry = []Applet{
	{"cat", "Concatenate files to standard output.", catMain},
	{"ls", "List directory contents.", lsMain},
	{"cp", "Copy files and directories.", cpMain},
	{"mv", "Move or rename files and directories.", mvMain},
	{"rm", "Remove files and directories.", rmMain},
	{"mkdir", "Create directories.", mkdirMain},
	{"chmod", "Change file mode bits.", chmodMain},
	{"realpath", "Print canonicalised absolute paths.", realpathMain},
	{"echo", "Print arguments to standard output.", echoMain},
	{"pwd", "Print the working directory.", pwdMain},
	{"whoami", "Print the calling username.", whoamiMain},
}

// All returns every registered applet in stable order.
func All() []Applet {
	out := make([]Applet, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds an applet by name; the second return is false when the name
// is not registered.
func Lookup(name string) (Applet, bool) {
	for _, a := range registry {
		if a.Name == name {
			return a, true
		}
	}
	return Applet{}, false
}

// optionSet is the per-applet option state, keyed by short option letter.
type optionSet map[byte]bool

// splitOperands walks argv once, feeding option-looking arguments through
// match and collecting everything else as operands. match reports false to
// reject the whole invocation (the applet has already printed why).
func splitOperands(args []string, match func(arg string) (bool, bool)) ([]string, bool) {
	var operands []string
	for _, arg := range args {
		isOpt, ok := match(arg)
		if !ok {
			return nil, false
		}
		if !isOpt {
			operands = append(operands, arg)
		}
	}
	return operands, true
}

// isOptionArg reports an option-looking argument: a dash followed by at
// least one character.
func isOptionArg(arg string) bool {
	return strings.HasPrefix(arg, "-") && len(arg) > 1
}
