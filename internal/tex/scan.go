package tex

import (
	"regexp"
	"strings"
)

var envTokenRe = regexp.MustCompile(`\\(begin|end)\s*\{([^}]+)\}`)

// EnvToken is one \begin{...} or \end{...} marker. Consumers maintain their
// own environment stack; see CollectEnvBlocks for the recovery policy applied
// to mismatched nesting.
type EnvToken struct {
	Kind   string // "begin" or "end"
	Name   string
	Offset int
}

// EnvTokens returns every \begin{name} / \end{name} marker in text, in
// order of appearance. Names are trimmed of surrounding whitespace.
func EnvTokens(text string) []EnvToken {
	var tokens []EnvToken
	for _, m := range envTokenRe.FindAllStringSubmatchIndex(text, -1) {
		tokens = append(tokens, EnvToken{
			Kind:   text[m[2]:m[3]],
			Name:   strings.TrimSpace(text[m[4]:m[5]]),
			Offset: m[0],
		})
	}
	return tokens
}

// EnvBlock is a completed environment span: Start is the offset of the
// \begin marker, End the offset of the matching \end marker.
type EnvBlock struct {
	Name  string
	Start int
	End   int
}

// CollectEnvBlocks pairs begin/end markers of the named environments into
// blocks using a lenient stack: when an end marker does not match the top
// frame, the stack is searched downward for the nearest same-named frame,
// and that frame plus everything above it are discarded as implicitly
// closed. Unmatched begins produce no block.
func CollectEnvBlocks(text string, envs map[string]bool) []EnvBlock {
	var blocks []EnvBlock
	var stack []EnvToken
	for _, tok := range EnvTokens(text) {
		if !envs[tok.Name] {
			continue
		}
		if tok.Kind == "begin" {
			stack = append(stack, tok)
			continue
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].Name == tok.Name {
				blocks = append(blocks, EnvBlock{Name: tok.Name, Start: stack[i].Offset, End: tok.Offset})
				stack = stack[:i]
				break
			}
		}
	}
	return blocks
}

// MatchingBrace returns the index of the closing brace matching the opening
// brace at start. Escaped braces do not affect the depth count. The second
// return value is false when text[start] is not '{' or the group is
// unbalanced before end of text.
func MatchingBrace(text string, start int) (int, bool) {
	return matchingDelim(text, start, '{', '}')
}

// MatchingBracket is MatchingBrace for square brackets.
func MatchingBracket(text string, start int) (int, bool) {
	return matchingDelim(text, start, '[', ']')
}

func matchingDelim(text string, start int, opener, closer byte) (int, bool) {
	if start >= len(text) || text[start] != opener {
		return 0, false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case opener:
			if !IsEscaped(text, i) {
				depth++
			}
		case closer:
			if !IsEscaped(text, i) {
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// SplitOptions splits a comma-separated option string at top-level commas
// only, tracking brace depth so commas inside {...} groups are kept.
func SplitOptions(options string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for i := 0; i < len(options); i++ {
		switch c := options[i]; {
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			if part := strings.TrimSpace(current.String()); part != "" {
				parts = append(parts, part)
			}
			current.Reset()
			continue
		}
		current.WriteByte(options[i])
	}
	if tail := strings.TrimSpace(current.String()); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// Span is the parsed region of a single command invocation. ArgStart/ArgEnd
// delimit the required argument's content (ArgEnd is the closing brace
// index); End is the position right after the required argument, or after
// the command name when no argument is present.
type Span struct {
	Name        string
	Start       int
	End         int
	Optional    string
	HasOptional bool
	Arg         string
	ArgStart    int
	ArgEnd      int
	HasArg      bool
}

// CommandSpans parses every occurrence of \name at a word boundary into a
// Span. An optional [...] argument and a required {...} argument may each be
// absent (or unterminated) without aborting the scan.
func CommandSpans(text, command string) []Span {
	pattern := regexp.MustCompile(`\\` + regexp.QuoteMeta(command) + `\b`)
	var spans []Span
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		i := loc[1]
		optional, hasOptional, next := parseOptional(text, i)
		arg, argStart, argEnd, hasArg := parseBraced(text, next)
		end := next
		if hasArg {
			end = argEnd + 1
		}
		spans = append(spans, Span{
			Name:        command,
			Start:       loc[0],
			End:         end,
			Optional:    optional,
			HasOptional: hasOptional,
			Arg:         arg,
			ArgStart:    argStart,
			ArgEnd:      argEnd,
			HasArg:      hasArg,
		})
	}
	return spans
}

// CommandPattern compiles a pattern matching \name followed by an opening
// brace, for any of the given command names. An empty list yields a pattern
// that never matches.
func CommandPattern(commands []string) *regexp.Regexp {
	var escaped []string
	for _, command := range commands {
		if command != "" {
			escaped = append(escaped, regexp.QuoteMeta(command))
		}
	}
	if len(escaped) == 0 {
		return regexp.MustCompile(`a^`)
	}
	return regexp.MustCompile(`\\(?:` + strings.Join(escaped, "|") + `)\s*\{`)
}

// MaskCommandArguments blanks the required argument of every listed command,
// plus the second braced argument for commands in twoArg. Length preserving.
func MaskCommandArguments(text string, commands []string, twoArg map[string]bool) string {
	if len(commands) == 0 {
		return text
	}
	buf := []byte(text)
	for _, command := range commands {
		for _, span := range CommandSpans(text, command) {
			if !span.HasArg {
				continue
			}
			maskRange(buf, span.ArgStart, span.ArgEnd)
			if twoArg[command] {
				i := skipSpace(text, span.ArgEnd+1)
				if i < len(text) && text[i] == '{' {
					if end, ok := MatchingBrace(text, i); ok {
						maskRange(buf, i+1, end)
					}
				}
			}
		}
	}
	return string(buf)
}

func parseOptional(text string, index int) (string, bool, int) {
	index = skipSpace(text, index)
	if index < len(text) && text[index] == '[' {
		end, ok := MatchingBracket(text, index)
		if !ok {
			return "", false, index
		}
		return text[index+1 : end], true, end + 1
	}
	return "", false, index
}

func parseBraced(text string, index int) (arg string, argStart, argEnd int, ok bool) {
	index = skipSpace(text, index)
	if index < len(text) && text[index] == '{' {
		end, found := MatchingBrace(text, index)
		if !found {
			return "", 0, 0, false
		}
		return text[index+1 : end], index + 1, end, true
	}
	return "", 0, 0, false
}

func skipSpace(text string, index int) int {
	for index < len(text) && isSpace(text[index]) {
		index++
	}
	return index
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
