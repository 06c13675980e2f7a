package tex

import (
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`[A-Za-zА-Яа-яЁё]+(?:-[A-Za-zА-Яа-яЁё]+)*`)
	fullWordRe = regexp.MustCompile(`\A[A-Za-zА-Яа-яЁё]+(?:-[A-Za-zА-Яа-яЁё]+)*\z`)
)

// IsWord reports whether s is a single natural-language word: a run of
// Cyrillic or Latin letters, optionally hyphen-joined.
func IsWord(s string) bool {
	return fullWordRe.MatchString(s)
}

// Word is one scanned word with its byte offset in the scanned text.
type Word struct {
	Text   string
	Offset int
}

// WordScanner tokenizes natural-language words out of markup text. It skips
// comments, math regions, the arguments of commands in SkipCommands (two
// arguments for commands in SkipTwoArgs), the bodies of environments in
// IgnoreEnvs (counting nested reopens of the same name), and command names
// themselves. For commands in SecondArgCommands the first braced argument is
// skipped and only the second is scanned. Arguments of any other command are
// entered recursively.
type WordScanner struct {
	IgnoreEnvs        map[string]bool
	SkipCommands      map[string]bool
	KeepCommands      map[string]bool
	SkipTwoArgs       map[string]bool
	SecondArgCommands map[string]bool
}

// Words scans the whole text.
func (s *WordScanner) Words(text string) []Word {
	return s.scanRange(text, 0, len(text), nil)
}

// WordsBetween scans the [start, end) range of text. Offsets in the result
// are absolute.
func (s *WordScanner) WordsBetween(text string, start, end int) []Word {
	return s.scanRange(text, start, end, nil)
}

func (s *WordScanner) scanRange(text string, start, end int, out []Word) []Word {
	i := start
	for i < end {
		c := text[i]
		if c == '%' && !IsEscaped(text, i) {
			i = skipComment(text, i)
			continue
		}
		if isMathStart(text, i) {
			i = skipMath(text, i)
			continue
		}
		if strings.HasPrefix(text[i:], `\begin`) {
			if next := s.handleBegin(text, i); next != i {
				i = next
				continue
			}
		}
		if c == '\\' {
			cmd, next := parseCommandName(text, i)
			i = next
			if cmd == "" {
				continue
			}
			if cmd == "begin" || cmd == "end" {
				i = skipCommandArgs(text, i, cmd, s.SkipTwoArgs)
				continue
			}
			if s.SkipCommands[cmd] && !s.KeepCommands[cmd] {
				i = skipCommandArgs(text, i, cmd, s.SkipTwoArgs)
				continue
			}
			if s.SecondArgCommands[cmd] {
				i = skipOptional(text, i)
				i = skipFirstBraced(text, i)
				if i < end && text[i] == '{' {
					argEnd, ok := MatchingBrace(text, i)
					if !ok {
						i++
						continue
					}
					out = s.scanRange(text, i+1, argEnd, out)
					i = argEnd + 1
				}
				continue
			}
			i = skipOptional(text, i)
			if i < end && text[i] == '{' {
				argEnd, ok := MatchingBrace(text, i)
				if !ok {
					i++
					continue
				}
				out = s.scanRange(text, i+1, argEnd, out)
				i = argEnd + 1
			}
			continue
		}

		next := nextSpecial(text, i, end)
		for _, loc := range wordRe.FindAllStringIndex(text[i:next], -1) {
			out = append(out, Word{Text: text[i+loc[0] : i+loc[1]], Offset: i + loc[0]})
		}
		i = next
	}
	return out
}

// handleBegin consumes a \begin{name} marker. When name is an ignored
// environment, the whole environment body is skipped, counting nested
// reopens of the same name. Returns the input index unchanged when the
// command at index is not exactly \begin.
func (s *WordScanner) handleBegin(text string, index int) int {
	cmd, next := parseCommandName(text, index)
	if cmd != "begin" {
		return index
	}
	next = skipOptional(text, next)
	if next >= len(text) || text[next] != '{' {
		return next
	}
	envEnd, ok := MatchingBrace(text, next)
	if !ok {
		return next + 1
	}
	name := strings.TrimSpace(text[next+1 : envEnd])
	if s.IgnoreEnvs[name] {
		return skipEnvironment(text, name, envEnd+1)
	}
	return envEnd + 1
}

// parseCommandName reads a command name right after a backslash: a run of
// ASCII letters, or a single character for control symbols like \%.
func parseCommandName(text string, index int) (string, int) {
	if index >= len(text) || text[index] != '\\' {
		return "", index
	}
	index++
	if index >= len(text) {
		return "", index
	}
	if isASCIILetter(text[index]) {
		start := index
		for index < len(text) && isASCIILetter(text[index]) {
			index++
		}
		return text[start:index], index
	}
	return text[index : index+1], index + 1
}

func skipOptional(text string, index int) int {
	index = skipSpace(text, index)
	if index < len(text) && text[index] == '[' {
		end, ok := MatchingBracket(text, index)
		if !ok {
			return index
		}
		return end + 1
	}
	return index
}

func skipFirstBraced(text string, index int) int {
	index = skipSpace(text, index)
	if index < len(text) && text[index] == '{' {
		end, ok := MatchingBrace(text, index)
		if !ok {
			return index + 1
		}
		return end + 1
	}
	return index
}

func skipCommandArgs(text string, index int, command string, skipTwoArgs map[string]bool) int {
	index = skipOptional(text, index)
	args := 1
	if skipTwoArgs[command] {
		args = 2
	}
	for n := 0; n < args; n++ {
		index = skipSpace(text, index)
		if index < len(text) && text[index] == '{' {
			end, ok := MatchingBrace(text, index)
			if !ok {
				return index + 1
			}
			index = end + 1
		} else {
			break
		}
	}
	return index
}

// skipEnvironment advances past the \end marker matching an already-consumed
// \begin{name}, counting nested reopens of the same environment name.
func skipEnvironment(text, name string, index int) int {
	pattern := regexp.MustCompile(`\\(begin|end)\s*\{` + regexp.QuoteMeta(name) + `\}`)
	depth := 1
	for _, m := range pattern.FindAllStringSubmatchIndex(text[index:], -1) {
		if text[index+m[2]:index+m[3]] == "begin" {
			depth++
		} else {
			depth--
			if depth == 0 {
				return index + m[1]
			}
		}
	}
	return len(text)
}

func skipComment(text string, index int) int {
	for index < len(text) && text[index] != '\n' {
		index++
	}
	return index
}

func isMathStart(text string, index int) bool {
	if text[index] == '$' && !IsEscaped(text, index) {
		return true
	}
	return strings.HasPrefix(text[index:], `\(`) || strings.HasPrefix(text[index:], `\[`)
}

func skipMath(text string, index int) int {
	if text[index] == '$' && !IsEscaped(text, index) {
		if index+1 < len(text) && text[index+1] == '$' {
			if end, ok := findUnescaped(text, "$$", index+2); ok {
				return end + 2
			}
			return len(text)
		}
		if end, ok := findUnescaped(text, "$", index+1); ok {
			return end + 1
		}
		return len(text)
	}
	if strings.HasPrefix(text[index:], `\(`) {
		if end := strings.Index(text[index+2:], `\)`); end >= 0 {
			return index + 2 + end + 2
		}
		return len(text)
	}
	if strings.HasPrefix(text[index:], `\[`) {
		if end := strings.Index(text[index+2:], `\]`); end >= 0 {
			return index + 2 + end + 2
		}
		return len(text)
	}
	return index + 1
}

func nextSpecial(text string, index, end int) int {
	for index < end {
		switch text[index] {
		case '\\', '%', '$':
			return index
		}
		index++
	}
	return end
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
