package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

var (
	itemRe          = regexp.MustCompile(`\\item\b`)
	beginOptionalRe = regexp.MustCompile(`\\begin\s*\{(?:itemize|enumerate)\}\s*\[`)
	itemOptionalRe  = regexp.MustCompile(`\\item\s*\[`)
)

// CustomList flags list environments outside the allowed set, and optional
// arguments that restyle list markers.
type CustomList struct {
	AllowedEnvs           []string
	ListEnvs              []string
	DisallowBeginOptional bool
	DisallowItemOptional  bool
}

func (CustomList) ID() string          { return "LST001" }
func (CustomList) Description() string { return "Only default itemize/enumerate lists are allowed." }

func (r CustomList) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	allowed := stringSet(r.AllowedEnvs)
	listEnvs := baseEnvSet(r.ListEnvs)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, tok := range tex.EnvTokens(masked) {
			if tok.Kind != "begin" {
				continue
			}
			if listEnvs[strings.TrimRight(tok.Name, "*")] && !allowed[tok.Name] {
				issues = append(issues, fileIssue(f, tok.Offset, r.ID(), "custom list environment used"))
			}
		}
		if r.DisallowBeginOptional {
			for _, loc := range beginOptionalRe.FindAllStringIndex(masked, -1) {
				issues = append(issues, fileIssue(f, loc[0], r.ID(), "list has custom begin options"))
			}
		}
		if r.DisallowItemOptional {
			for _, loc := range itemOptionalRe.FindAllStringIndex(masked, -1) {
				issues = append(issues, fileIssue(f, loc[0], r.ID(), "list item uses custom label"))
			}
		}
	}
	return issues
}

// NestedList flags a list environment opened inside another list.
type NestedList struct {
	ListEnvs []string
}

func (NestedList) ID() string          { return "LST002" }
func (NestedList) Description() string { return "Nested lists are not allowed." }

func (r NestedList) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	listEnvs := baseEnvSet(r.ListEnvs)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		var stack []string
		for _, tok := range tex.EnvTokens(masked) {
			base := strings.TrimRight(tok.Name, "*")
			if !listEnvs[base] {
				continue
			}
			if tok.Kind == "begin" {
				if len(stack) > 0 {
					issues = append(issues, fileIssue(f, tok.Offset, r.ID(), "nested list detected"))
				}
				stack = append(stack, base)
			} else if len(stack) > 0 && stack[len(stack)-1] == base {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return issues
}

// listItem is one \item region: Start at the marker, ContentStart after an
// optional [label], End exclusive at the next sibling marker or the closing
// marker. End is -1 while the item is still open.
type listItem struct {
	Start        int
	ContentStart int
	End          int
}

// ListItemPunctuation enforces the configured item terminators (non-last vs
// last item) and a single sentence per item.
type ListItemPunctuation struct {
	ListEnvs        []string
	SkipCommands    []string
	TwoArgCommands  []string
	SentenceEndings []string
	LastEnd         string
	NonLastEnd      string
}

func (ListItemPunctuation) ID() string { return "LST003" }
func (ListItemPunctuation) Description() string {
	return "List items must use semicolons and single sentences."
}

const listItemSentenceID = "LST004"

func (r ListItemPunctuation) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	listEnvs := baseEnvSet(r.ListEnvs)
	endings := stringSet(r.SentenceEndings)
	twoArg := stringSet(r.TwoArgCommands)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		masked = tex.MaskCommandArguments(masked, r.SkipCommands, twoArg)
		for _, items := range collectListItems(masked, listEnvs) {
			for index, item := range items {
				if item.End < 0 {
					continue
				}
				last := lastNonSpaceIndex(masked, item.ContentStart, item.End)
				if last < item.ContentStart {
					continue
				}
				expected := r.NonLastEnd
				if index == len(items)-1 {
					expected = r.LastEnd
				}
				if string(masked[last]) != expected {
					issues = append(issues, fileIssue(f, last, r.ID(),
						fmt.Sprintf("list item must end with '%s'", expected)))
				}
				sentenceEnds := sentenceEndPositions(masked, item.ContentStart, item.End, endings)
				if len(sentenceEnds) > 0 && sentenceEnds[0] < last {
					issues = append(issues, fileIssue(f, sentenceEnds[0], listItemSentenceID,
						"list item contains multiple sentences"))
				}
			}
		}
	}
	return issues
}

// ListItemCase flags items whose first word starts with an uppercase letter.
type ListItemCase struct {
	ListEnvs       []string
	SkipCommands   []string
	TwoArgCommands []string
}

func (ListItemCase) ID() string          { return "LST005" }
func (ListItemCase) Description() string { return "List items must not start with uppercase letters." }

func (r ListItemCase) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	listEnvs := baseEnvSet(r.ListEnvs)
	scanner := &tex.WordScanner{
		SkipCommands: stringSet(r.SkipCommands),
		SkipTwoArgs:  stringSet(r.TwoArgCommands),
	}
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, items := range collectListItems(masked, listEnvs) {
			for _, item := range items {
				if item.End < 0 {
					continue
				}
				words := scanner.WordsBetween(f.Text, item.ContentStart, item.End)
				if len(words) == 0 {
					continue
				}
				first := []rune(words[0].Text)
				if len(first) > 0 && isUpperLetter(first[0]) {
					issues = append(issues, fileIssue(f, words[0].Offset, r.ID(),
						"list item starts with uppercase letter"))
				}
			}
		}
	}
	return issues
}

func isUpperLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'А' && r <= 'Я') || r == 'Ё'
}

// listEvent is a begin/end/item marker in offset order.
type listEvent struct {
	offset int
	kind   string // "begin", "end" or "item"
	env    string
}

// collectListItems gathers top-level items of each outermost list in text.
// Nested lists contribute depth but no items of their own; mismatched ends
// recover by unwinding the stack to the nearest same-named frame.
func collectListItems(text string, listEnvs map[string]bool) [][]listItem {
	var events []listEvent
	for _, tok := range tex.EnvTokens(text) {
		if listEnvs[strings.TrimRight(tok.Name, "*")] {
			events = append(events, listEvent{offset: tok.Offset, kind: tok.Kind, env: strings.TrimRight(tok.Name, "*")})
		}
	}
	for _, loc := range itemRe.FindAllStringIndex(text, -1) {
		events = append(events, listEvent{offset: loc[0], kind: "item"})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].offset < events[j].offset })

	var (
		stack   []string
		lists   [][]listItem
		current []listItem
		open    = -1 // index into current of the item without an End yet
		active  bool
	)
	closeOpen := func(end int) {
		if open >= 0 && current[open].End < 0 {
			current[open].End = end
		}
	}
	for _, ev := range events {
		switch ev.kind {
		case "begin":
			stack = append(stack, ev.env)
			if len(stack) == 1 {
				current = nil
				open = -1
				active = true
			}
		case "end":
			if len(stack) > 0 && stack[len(stack)-1] == ev.env {
				stack = stack[:len(stack)-1]
			} else {
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == ev.env {
						stack = stack[:i]
						break
					}
				}
			}
			if len(stack) == 0 && active {
				closeOpen(ev.offset)
				lists = append(lists, current)
				current = nil
				open = -1
				active = false
			}
		case "item":
			if len(stack) != 1 || !active {
				continue
			}
			closeOpen(ev.offset)
			current = append(current, listItem{
				Start:        ev.offset,
				ContentStart: itemContentStart(text, ev.offset),
				End:          -1,
			})
			open = len(current) - 1
		}
	}
	if active && open >= 0 && current[open].End < 0 {
		current[open].End = len(text)
		lists = append(lists, current)
	}
	return lists
}

// itemContentStart skips the \item marker, whitespace, and an optional
// [label] argument.
func itemContentStart(text string, offset int) int {
	index := offset + len(`\item`)
	for index < len(text) && isSpaceByte(text[index]) {
		index++
	}
	if index < len(text) && text[index] == '[' {
		if end, ok := tex.MatchingBracket(text, index); ok {
			index = end + 1
		}
	}
	return index
}

func lastNonSpaceIndex(text string, start, end int) int {
	index := end - 1
	for index >= start && isSpaceByte(text[index]) {
		index--
	}
	return index
}

// sentenceEndPositions lists sentence-ending punctuation inside an item,
// skipping decimal points between digits.
func sentenceEndPositions(text string, start, end int, endings map[string]bool) []int {
	var positions []int
	for index := start; index < end; index++ {
		c := text[index]
		if !endings[string(c)] {
			continue
		}
		if c == '.' && isDecimalPoint(text, index, start, end) {
			continue
		}
		positions = append(positions, index)
	}
	return positions
}

func isDecimalPoint(text string, index, start, end int) bool {
	if index <= start || index+1 >= end {
		return false
	}
	return isDigit(text[index-1]) && isDigit(text[index+1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
