package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	promptIdentity = color.New(color.FgGreen, color.Bold)
	promptPath     = color.New(color.FgBlue, color.Bold)
)

// Prompt renders the interactive prompt: user@host:path with the path
// shortened to ~ inside the home directory, "#" for the superuser and "$"
// for everyone else.
type Prompt struct {
	Username string
	Hostname string
	Home     string
	Colors   bool
}

func (p *Prompt) glyph() string {
	if os.Getuid() == 0 {
		return "#"
	}
	return "$"
}

func (p *Prompt) location() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "?"
	}
	if p.Home != "" && (cwd == p.Home || strings.HasPrefix(cwd, p.Home+"/")) {
		return "~" + cwd[len(p.Home):]
	}
	return cwd
}

func (p *Prompt) Render(w io.Writer) {
	if p.Colors {
		fmt.Fprintf(w, "%s:%s%s ",
			promptIdentity.Sprintf("%s@%s", p.Username, p.Hostname),
			promptPath.Sprint(p.location()),
			p.glyph(),
		)
		return
	}
	fmt.Fprintf(w, "%s@%s:%s%s ", p.Username, p.Hostname, p.location(), p.glyph())
}
