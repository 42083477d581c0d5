// Package cli provides the colored apex/log handler the shell uses for its
// own diagnostics. Applet output never goes through here; this handler only
// carries spawn traces, configuration problems and fatal driver states, so
// it stays terse enough to share a terminal with the prompt.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

var Default = New(os.Stderr, true)

var bold = color.New(color.Bold)

var levels = [...]struct {
	label string
	color *color.Color
}{
	log.DebugLevel: {"DEBUG", color.New(color.FgWhite)},
	log.InfoLevel:  {" INFO", color.New(color.FgBlue)},
	log.WarnLevel:  {" WARN", color.New(color.FgYellow)},
	log.ErrorLevel: {"ERROR", color.New(color.FgRed)},
	log.FatalLevel: {"FATAL", color.New(color.FgRed, color.Bold)},
}

type Handler struct {
	mu     sync.Mutex
	Writer io.Writer
}

func New(w io.Writer, useColors bool) *Handler {
	if f, ok := w.(*os.File); ok && useColors {
		return &Handler{Writer: colorable.NewColorable(f)}
	}
	return &Handler{Writer: colorable.NewNonColorable(w)}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	lv := levels[e.Level]

	h.mu.Lock()
	defer h.mu.Unlock()

	lv.color.Fprintf(h.Writer, "%s:", bold.Sprint(lv.label))
	fmt.Fprintf(h.Writer, " %s", e.Message)

	for _, name := range e.Fields.Names() {
		if name == "error" {
			continue
		}
		fmt.Fprintf(h.Writer, " %s=%v", lv.color.Sprint(name), e.Fields.Get(name))
	}
	fmt.Fprintln(h.Writer)

	if err, ok := e.Fields.Get("error").(error); ok {
		// Attach a stacktrace if one is missing at this point, without
		// pinning it to this exact line.
		err = errors.WithStackDepthIf(err, 1)
		fmt.Fprintf(h.Writer, "%+v\n", err)
	}

	return nil
}
