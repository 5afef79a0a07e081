package command

import (
	"strings"
	"unicode"
)

// Marker is the character every command keyword starts with.
const Marker = "?"

// Invocation is a command string broken into its keyword and arguments.
type Invocation struct {
	Keyword string   // without the marker
	Args    []string // parenthesized groups, left to right
}

// Parse splits input on its first whitespace run into a keyword and a
// remainder, then extracts the arguments from the remainder.
// ok is false when the keyword does not start with Marker.
func Parse(input string) (inv Invocation, ok bool) {
	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)

	keyword, rest := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		keyword, rest = trimmed[:i], trimmed[i:]
	}

	if !strings.HasPrefix(keyword, Marker) {
		return Invocation{}, false
	}
	return Invocation{
		Keyword: strings.TrimPrefix(keyword, Marker),
		Args:    ExtractArgs(rest),
	}, true
}

// ExtractArgs returns the contents of each "(...)" group in s.
//
// Groups do not nest: a group opens at "(" and closes at the first ")"
// after it, so "(a(b)" yields "a(b" and an argument can never contain ")".
// Empty groups are ignored, as is a trailing "(" with no closing ")".
func ExtractArgs(s string) []string {
	var args []string
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return args
		}
		s = s[open+1:]

		end := strings.IndexByte(s, ')')
		if end < 0 {
			return args
		}
		if end > 0 {
			args = append(args, s[:end])
		}
		s = s[end+1:]
	}
}
