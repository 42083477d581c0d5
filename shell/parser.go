package shell

import (
	"fmt"
	"strings"
)

// SyntaxError rejects a whole input line over one offending delimiter.
type SyntaxError struct {
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error near unexpected token '%s'", e.Token)
}

// Delimiter violation families. Not every family applies to every delimiter:
// a lone ">" may legitimately sit right behind another ">" (that is how ">>"
// reads during the single-character scan), so it only participates in the
// empty-between relaxation.
const (
	beginWithDelimiter = 1 << iota
	delimiterConcat
	emptyBetweenDelimiter
)

var delimiterRules = []struct {
	token string
	flags int
}{
	{";", beginWithDelimiter | delimiterConcat | emptyBetweenDelimiter},
	{"&&", beginWithDelimiter | delimiterConcat | emptyBetweenDelimiter},
	{"|", beginWithDelimiter | delimiterConcat | emptyBetweenDelimiter},
	{"<<", delimiterConcat | emptyBetweenDelimiter},
	{">", emptyBetweenDelimiter},
	{">>", delimiterConcat | emptyBetweenDelimiter},
}

func checkDelimiter(line, token string, flags int) error {
	s := strings.TrimLeft(line, " \t\r\v\f")
	for pos := 0; ; {
		i := strings.Index(s[pos:], token)
		if i == -1 {
			return nil
		}
		i += pos
		if i == 0 && flags&beginWithDelimiter != 0 {
			return &SyntaxError{Token: token}
		}
		j := i
		if flags&emptyBetweenDelimiter != 0 {
			for j > 0 && isBlank(s[j-1]) {
				j--
			}
		}
		if flags&delimiterConcat != 0 && j >= len(token) && s[j-len(token):j] == token {
			return &SyntaxError{Token: token}
		}
		pos = i + len(token)
	}
}

// CheckSyntax validates a line against every delimiter family and returns
// the first violation found, or nil when the line is acceptable.
func CheckSyntax(line string) error {
	for _, r := range delimiterRules {
		if err := checkDelimiter(line, r.token, r.flags); err != nil {
			return err
		}
	}
	return nil
}

var continuationTokens = []string{"&&", "|", "<<", ">", ">>"}

// NeedsContinuation reports whether the line ends in a delimiter that cannot
// terminate a command, in which case the driver prompts for more input.
func NeedsContinuation(line string) bool {
	trimmed := strings.TrimRight(line, " \t\r\v\f")
	for _, tok := range continuationTokens {
		if strings.HasSuffix(trimmed, tok) {
			return true
		}
	}
	return false
}

// Unit is one executable command string carved out of a line. And marks a
// unit produced by "&&": it only runs when the unit before it succeeded.
type Unit struct {
	Text string
	And  bool
}

// SplitUnits breaks a validated line into its command units: top-level split
// on ";", then each segment on "&&". Empty fragments from trailing
// separators are dropped.
func SplitUnits(line string) []Unit {
	var units []Unit
	for _, seg := range strings.Split(line, ";") {
		for k, part := range strings.Split(seg, "&&") {
			text := strings.TrimSpace(part)
			if text == "" {
				continue
			}
			units = append(units, Unit{Text: text, And: k > 0})
		}
	}
	return units
}
