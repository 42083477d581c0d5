package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// pipeStage is one registered segment of a pipeline: its command text with
// heredoc markers stripped and whatever heredoc body was ingested for it.
type pipeStage struct {
	text    string
	heredoc string
}

func firstReader(r io.Reader, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func firstWriter(w io.Writer, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// runPipeline splits a command unit on "|" and launches one child per stage,
// wired stdout-to-stdin through N-1 pipes. Heredocs are ingested for every
// stage before any process starts. The parent closes its copy of each pipe
// end as soon as the stage using it has been started, so downstream readers
// observe EOF the moment their writer exits; all children are reaped only
// after the full topology is running.
func (ex *Executor) runPipeline(text string) int {
	parts := strings.Split(text, "|")
	stages := make([]pipeStage, 0, len(parts))
	for _, p := range parts {
		heredoc, stripped := ex.ingestHeredocs(p)
		stages = append(stages, pipeStage{text: strings.TrimSpace(stripped), heredoc: heredoc})
	}

	status := 0
	var started []*exec.Cmd
	var prevRead *os.File

	for i, st := range stages {
		var nextRead, write *os.File
		if i < len(stages)-1 {
			r, w, err := os.Pipe()
			if err != nil {
				fmt.Fprintf(ex.Stderr, "skiff: pipe: %s\n", err)
				if prevRead != nil {
					prevRead.Close()
				}
				break
			}
			nextRead, write = r, w
		}

		cmd, redirect, ok := ex.buildCommand(st.text, st.heredoc)
		if ok {
			if i > 0 {
				cmd.Stdin = firstReader(cmd.Stdin, prevRead)
			} else {
				cmd.Stdin = firstReader(cmd.Stdin, ex.Stdin)
			}
			if write != nil {
				cmd.Stdout = firstWriter(cmd.Stdout, write)
			} else {
				cmd.Stdout = firstWriter(cmd.Stdout, ex.Stdout)
			}

			if err := cmd.Start(); err != nil {
				fmt.Fprintf(ex.Stderr, "skiff: %s: %s\n", cmd.Args[0], err)
				status = 1
			} else {
				log.WithField("path", cmd.Path).WithField("stage", i).Debug("spawned pipeline stage")
				started = append(started, cmd)
			}
			if redirect != nil {
				redirect.Close()
			}
		} else {
			status = 1
		}

		// Close discipline: the write end belongs to stage i, the read end
		// of the previous pipe to stage i as well. Both were handed over
		// (or the stage failed); either way the parent must let go now.
		if write != nil {
			write.Close()
		}
		if prevRead != nil {
			prevRead.Close()
		}
		prevRead = nextRead
	}

	for _, cmd := range started {
		if err := cmd.Wait(); err != nil {
			status = exitStatus(cmd)
		}
	}
	return status
}
