package shell

import (
	"fmt"
	"os"
	"os/user"

	"emperror.dev/errors"
	"github.com/apex/log"
)

// Shell is the interactive driver: a prompt, a line reader, a parser and an
// executor bound together with the two directories that make up its world
// view (the user's home and the application home commands are looked up in).
type Shell struct {
	Home    string
	AppHome string

	in     *Reader
	out    *os.File
	errOut *os.File
	prompt *Prompt
	exec   *Executor
}

// Options tune a shell created by New.
type Options struct {
	// AppHome is the directory external commands are looked up in. Empty
	// means the working directory at startup.
	AppHome string
	// Colors enables prompt coloring.
	Colors bool
}

// New builds a shell bound to the current process's terminal and identity.
func New(opts Options) (*Shell, error) {
	u, err := user.Current()
	if err != nil {
		return nil, errors.Wrap(err, "shell: failed to resolve current user")
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	appHome := opts.AppHome
	if appHome == "" {
		if appHome, err = os.Getwd(); err != nil {
			return nil, errors.Wrap(err, "shell: failed to resolve working directory")
		}
	}

	s := &Shell{
		Home:    u.HomeDir,
		AppHome: appHome,
		in:      NewReader(os.Stdin),
		out:     os.Stdout,
		errOut:  os.Stderr,
		prompt: &Prompt{
			Username: u.Username,
			Hostname: hostname,
			Home:     u.HomeDir,
			Colors:   opts.Colors,
		},
	}
	s.exec = &Executor{
		Home:    u.HomeDir,
		AppHome: appHome,
		In:      s.in,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	return s, nil
}

// Run drives the read-validate-execute loop until the input stream ends.
func (s *Shell) Run() error {
	log.WithField("app_home", s.AppHome).Debug("starting interactive shell")
	for {
		s.prompt.Render(s.out)

		line, err := s.in.ReadCommand()
		if err != nil {
			fmt.Fprintln(s.out)
			return nil
		}
		if line == "" {
			continue
		}

		if err := CheckSyntax(line); err != nil {
			fmt.Fprintf(s.errOut, "skiff: %s\n", err)
			continue
		}

		full, err := s.completeLine(line)
		if err != nil {
			return nil
		}

		status := 0
		for _, unit := range SplitUnits(full) {
			if unit.And && status != 0 {
				continue
			}
			status = s.exec.Run(unit.Text)
		}
	}
}

// completeLine keeps prompting for continuation input while the line still
// ends in a dangling delimiter.
func (s *Shell) completeLine(line string) (string, error) {
	for NeedsContinuation(line) {
		fmt.Fprint(s.out, "> ")
		more, err := s.in.ReadCommand()
		if err != nil {
			return "", err
		}
		line += more
	}
	return line, nil
}
