// Package tex implements the escape-aware lexical engine for LaTeX-like
// sources: length-preserving comment and math masking, balanced-delimiter
// matching, command span parsing, environment tokens, and a natural-language
// word scanner. All offsets are byte offsets into the original text; masking
// never changes the text length, so offsets derived from masked text map 1:1
// back to the original.
package tex

import "strings"

// IsEscaped reports whether the character at index is escaped, i.e. preceded
// by an odd number of consecutive backslashes.
func IsEscaped(text string, index int) bool {
	backslashes := 0
	for pos := index - 1; pos >= 0 && text[pos] == '\\'; pos-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// StripComments blanks every comment (an unescaped '%' up to end of line)
// with spaces. Newlines are preserved and the result has the same length as
// the input.
func StripComments(text string) string {
	buf := []byte(text)
	i := 0
	for i < len(buf) {
		if buf[i] == '%' && !IsEscaped(text, i) {
			for i < len(buf) && buf[i] != '\n' {
				buf[i] = ' '
				i++
			}
			continue
		}
		i++
	}
	return string(buf)
}

// MaskMath blanks inline $...$, display $$...$$, \(...\) and \[...\] regions,
// delimiters included, preserving newlines and total length. When a math
// region has no closing delimiter, masking stops at that point and the rest
// of the text is returned unmodified.
func MaskMath(text string) string {
	buf := []byte(text)
	i := 0
	for i < len(buf) {
		if buf[i] == '$' && !IsEscaped(text, i) {
			if i+1 < len(buf) && buf[i+1] == '$' {
				end, ok := findUnescaped(text, "$$", i+2)
				if !ok {
					break
				}
				maskRange(buf, i, end+2)
				i = end + 2
				continue
			}
			end, ok := findUnescaped(text, "$", i+1)
			if !ok {
				break
			}
			maskRange(buf, i, end+1)
			i = end + 1
			continue
		}
		if strings.HasPrefix(text[i:], `\(`) {
			end := strings.Index(text[i+2:], `\)`)
			if end < 0 {
				break
			}
			end += i + 2
			maskRange(buf, i, end+2)
			i = end + 2
			continue
		}
		if strings.HasPrefix(text[i:], `\[`) {
			end := strings.Index(text[i+2:], `\]`)
			if end < 0 {
				break
			}
			end += i + 2
			maskRange(buf, i, end+2)
			i = end + 2
			continue
		}
		i++
	}
	return string(buf)
}

// MaskCommentsAndMath strips comments first, then masks math regions.
func MaskCommentsAndMath(text string) string {
	return MaskMath(StripComments(text))
}

// maskRange blanks buf[start:end] with spaces, keeping newlines.
func maskRange(buf []byte, start, end int) {
	if end > len(buf) {
		end = len(buf)
	}
	for i := start; i < end; i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}

// findUnescaped returns the index of the next unescaped occurrence of needle
// at or after start.
func findUnescaped(text, needle string, start int) (int, bool) {
	i := start
	for {
		rel := strings.Index(text[i:], needle)
		if rel < 0 {
			return 0, false
		}
		i += rel
		if !IsEscaped(text, i) {
			return i, true
		}
		i += len(needle)
	}
}
