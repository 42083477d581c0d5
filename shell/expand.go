package shell

import (
	"path/filepath"
	"strings"
)

// ExpandTilde rewrites a leading tilde: a bare "~" or "~/suffix" resolves
// against the caller's home directory, while "~name" falls back to the
// conventional /home/name location.
func ExpandTilde(token, home string) string {
	if !strings.HasPrefix(token, "~") {
		return token
	}
	rest := token[1:]
	switch {
	case rest == "":
		return home
	case strings.HasPrefix(rest, "/"):
		return home + rest
	default:
		return "/home/" + rest
	}
}

// ExpandGlob expands a pattern against the filesystem. A pattern that
// matches nothing (or is malformed) passes through as a literal, the
// GLOB_NOCHECK behavior of glob(3).
func ExpandGlob(pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return []string{pattern}
	}
	return matches
}

// SplitArgv tokenises a command on whitespace and expands each token.
// Tokens starting with "-" are options and pass through untouched; anything
// else goes through tilde expansion and globbing and may fan out into
// several arguments.
func SplitArgv(command, home string) []string {
	var argv []string
	for _, tok := range strings.Fields(command) {
		if strings.HasPrefix(tok, "-") {
			argv = append(argv, tok)
			continue
		}
		argv = append(argv, ExpandGlob(ExpandTilde(tok, home))...)
	}
	return argv
}
