package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"

	"github.com/skiffshell/skiff/entry"
)

// Executor runs command units. It owns the child-facing ends of the process:
// the shell's terminal files, the input reader heredocs are ingested from,
// and the two directories every lookup needs (the user's home for tilde
// expansion and the application home for command search).
type Executor struct {
	Home    string
	AppHome string

	In     *Reader
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one command unit and returns its exit status.
func (ex *Executor) Run(text string) int {
	if strings.Contains(text, "|") {
		return ex.runPipeline(text)
	}
	return ex.runSimple(text)
}

func (ex *Executor) runSimple(text string) int {
	heredoc, text := ex.ingestHeredocs(text)

	if fields := strings.Fields(text); len(fields) > 0 && fields[0] == "cd" {
		return ex.cd(text)
	}

	cmd, redirect, ok := ex.buildCommand(text, heredoc)
	if !ok {
		return 1
	}
	cmd.Stdin = firstReader(cmd.Stdin, ex.Stdin)
	cmd.Stdout = firstWriter(cmd.Stdout, ex.Stdout)

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(ex.Stderr, "skiff: %s: %s\n", cmd.Args[0], err)
		if redirect != nil {
			redirect.Close()
		}
		return 1
	}
	log.WithField("path", cmd.Path).Debug("spawned child process")
	if redirect != nil {
		redirect.Close()
	}
	if err := cmd.Wait(); err != nil {
		return exitStatus(cmd)
	}
	return 0
}

func exitStatus(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return 1
	}
	if code := cmd.ProcessState.ExitCode(); code > 0 {
		return code
	}
	return 1
}

// buildCommand turns a command string (heredoc markers already stripped)
// into a ready-to-start process: redirections carved out and opened, argv
// expanded, argv[0] located and permission-checked. Diagnostics go straight
// to the shell's stderr; a false return means the command cannot run and the
// unit fails with status 1.
func (ex *Executor) buildCommand(text, heredoc string) (*exec.Cmd, *os.File, bool) {
	var redirect *os.File
	if strings.Contains(text, ">>") {
		stripped, target := stripRedirect(text, ">>")
		f, ok := ex.openRedirect(target, true)
		if !ok {
			return nil, nil, false
		}
		text, redirect = stripped, f
	} else if strings.Contains(text, ">") {
		stripped, target := stripRedirect(text, ">")
		f, ok := ex.openRedirect(target, false)
		if !ok {
			return nil, nil, false
		}
		text, redirect = stripped, f
	}

	argv := SplitArgv(text, ex.Home)
	if len(argv) == 0 {
		if redirect != nil {
			redirect.Close()
		}
		return nil, nil, false
	}

	path, ok := ex.locate(argv[0])
	if !ok {
		if redirect != nil {
			redirect.Close()
		}
		return nil, nil, false
	}

	cmd := &exec.Cmd{Path: path, Args: argv, Stderr: ex.Stderr}
	if heredoc != "" {
		cmd.Stdin = strings.NewReader(heredoc)
	}
	if redirect != nil {
		cmd.Stdout = redirect
	}
	return cmd, redirect, true
}

// stripRedirect blanks every occurrence of the delimiter and the path word
// following it, returning the rewritten command and the last such path.
func stripRedirect(text, delim string) (string, string) {
	b := []byte(text)
	var target string
	for {
		i := strings.Index(string(b), delim)
		if i < 0 {
			break
		}
		for k := i; k < i+len(delim); k++ {
			b[k] = ' '
		}
		j := i + len(delim)
		for j < len(b) && isBlank(b[j]) {
			j++
		}
		k := j
		for k < len(b) && !isBlank(b[k]) {
			k++
		}
		target = string(b[j:k])
		for m := j; m < k; m++ {
			b[m] = ' '
		}
	}
	return string(b), target
}

// openRedirect expands and validates a redirect target, then opens it for
// truncation or append. The glob must resolve to at most one path.
func (ex *Executor) openRedirect(target string, appendMode bool) (*os.File, bool) {
	paths := ExpandGlob(ExpandTilde(target, ex.Home))
	if len(paths) > 1 {
		fmt.Fprintf(ex.Stderr, "skiff: %s: ambiguous redirect\n", target)
		return nil, false
	}

	e, err := entry.Resolve(paths[0])
	if err != nil {
		fmt.Fprintf(ex.Stderr, "skiff: %s\n", err)
		return nil, false
	}
	if !e.Located() && !entry.DirWritable(e.Prev()) {
		fmt.Fprintf(ex.Stderr, "skiff: cannot create '%s': Permission denied\n", e.Received())
		return nil, false
	}
	if e.IsDir() {
		fmt.Fprintf(ex.Stderr, "skiff: cannot overwrite directory '%s'\n", e.Received())
		return nil, false
	}
	if e.IsFile() && !entry.FileWritable(e) {
		fmt.Fprintf(ex.Stderr, "skiff: cannot open '%s': Permission denied\n", e.Received())
		return nil, false
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(e.RealPath, flags, 0o775)
	if err != nil {
		fmt.Fprintf(ex.Stderr, "skiff: cannot open '%s': %s\n", e.Received(), err)
		return nil, false
	}
	return f, true
}

// ingestHeredocs consumes every "<<TOKEN" marker in the command, reading
// body lines from the shell input until a line equals the token. The marker
// and token are blanked out of the command string, and the collected blob
// becomes the child's standard input. Reading happens in the parent, before
// any child is spawned, so the continuation prompt stays visible.
func (ex *Executor) ingestHeredocs(text string) (string, string) {
	var blob strings.Builder
	b := []byte(text)
	for {
		i := strings.Index(string(b), "<<")
		if i < 0 {
			break
		}
		b[i], b[i+1] = ' ', ' '
		j := i + 2
		for j < len(b) && isBlank(b[j]) {
			j++
		}
		k := j
		for k < len(b) && !isBlank(b[k]) {
			k++
		}
		token := string(b[j:k])
		for m := j; m < k; m++ {
			b[m] = ' '
		}

		fmt.Fprint(ex.Stdout, "> ")
		for {
			line, err := ex.In.ReadLine()
			if err != nil {
				break
			}
			if strings.TrimSuffix(line, "\n") == token {
				break
			}
			blob.WriteString(line)
			fmt.Fprint(ex.Stdout, "> ")
		}
	}
	return blob.String(), string(b)
}

// locate resolves argv[0] to an executable path. Bare names are looked up in
// the application home only; anything containing a slash is taken as a
// filesystem path. Either way the result must exist, be a regular file and
// be execute-permitted for the caller.
func (ex *Executor) locate(arg0 string) (string, bool) {
	var e *entry.Entry
	if !strings.Contains(arg0, "/") {
		home, err := entry.Resolve(ex.AppHome)
		if err != nil {
			fmt.Fprintf(ex.Stderr, "skiff: %s\n", err)
			return "", false
		}
		e = entry.Join(arg0, home)
		if !e.IsFile() {
			fmt.Fprintf(ex.Stderr, "%s: command not found\n", arg0)
			return "", false
		}
	} else {
		var err error
		e, err = entry.Resolve(arg0)
		if err != nil {
			fmt.Fprintf(ex.Stderr, "skiff: %s\n", err)
			return "", false
		}
		if !e.Located() {
			fmt.Fprintf(ex.Stderr, "%s: No such file or directory\n", arg0)
			return "", false
		}
		if e.IsDir() {
			fmt.Fprintf(ex.Stderr, "%s: Is a directory\n", arg0)
			return "", false
		}
		if !e.IsFile() {
			fmt.Fprintf(ex.Stderr, "%s: command not found\n", arg0)
			return "", false
		}
	}

	if !entry.FileExecutable(e) {
		fmt.Fprintf(ex.Stderr, "skiff: cannot execute command '%s': Permission denied\n", arg0)
		return "", false
	}
	return e.RealPath, true
}

// cd is the one builtin: it must run in the shell process so the working
// directory change survives the command.
func (ex *Executor) cd(text string) int {
	argv := SplitArgv(text, ex.Home)
	if len(argv) > 2 {
		fmt.Fprintln(ex.Stderr, "cd: too many arguments")
		return 1
	}

	path := ex.Home
	if len(argv) == 2 && argv[1] != "" {
		path = argv[1]
	}

	e, err := entry.Resolve(path)
	if err != nil {
		fmt.Fprintf(ex.Stderr, "cd: %s\n", err)
		return 1
	}
	switch {
	case !e.Located():
		fmt.Fprintf(ex.Stderr, "cd: %s: No such file or directory\n", e.Received())
		return 1
	case !e.IsDir():
		fmt.Fprintf(ex.Stderr, "cd: '%s': Not a directory\n", e.Received())
		return 1
	case !entry.DirReadable(e):
		fmt.Fprintf(ex.Stderr, "cd: cannot access '%s': Permission denied\n", e.Received())
		return 1
	}

	if err := os.Chdir(e.RealPath); err != nil {
		fmt.Fprintf(ex.Stderr, "cd: %s: %s\n", e.Received(), err)
		return 1
	}
	return 0
}
