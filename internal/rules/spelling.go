package rules

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/siberianbearofficial/lint-gost-tex/internal/dict"
	"github.com/siberianbearofficial/lint-gost-tex/internal/document"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

// systemWordlists are consulted for English in addition to configured dicts.
var systemWordlists = []string{"/usr/share/dict/words", "/usr/dict/words"}

var (
	spellSkipTwoArgs       = map[string]bool{"href": true, "hyperref": true}
	spellSecondArgCommands = map[string]bool{"captionof": true}
)

// GOST 7.12 prescribes "пиксел"; the soft-sign forms are banned outright.
var pixelForms = stringSet([]string{
	"пиксель", "пикселя", "пикселю", "пикселем", "пикселе",
	"пиксели", "пикселей", "пикселям", "пикселями", "пикселях",
})

var pixelAllowedForms = stringSet([]string{
	"пиксел", "пиксела", "пикселу", "пикселом", "пикселе",
	"пикселы", "пикселов", "пикселам", "пикселами", "пикселах",
})

// Spellcheck verifies every scanned word against the custom, Russian and
// English dictionaries, including the "ё" morphology check for Russian
// words spelled with a plain "е".
type Spellcheck struct {
	CustomDict              string
	ExtraRuDicts            []string
	ExtraEnDicts            []string
	IgnoreEnvs              []string
	SkipCommands            []string
	KeepCommands            []string
	MinWordLength           int
	IgnoreUppercaseAcronyms bool
}

func (Spellcheck) ID() string          { return "SPELL001" }
func (Spellcheck) Description() string { return "Words must exist in the dictionaries." }

const (
	spellDictID    = "SPELL000"
	spellUnknownID = "SPELL001"
	spellBannedID  = "SPELL002"
	spellYoID      = "SPELL003"
)

func (r Spellcheck) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	customWords := dict.Load([]string{r.CustomDict})
	ruWords := dict.Load(r.ExtraRuDicts)
	enWords := dict.Load(append(append([]string{}, r.ExtraEnDicts...), existingPaths(systemWordlists)...))

	if len(ruWords) == 0 {
		issues = append(issues, configIssue(ctx, spellDictID, "missing Russian dictionary"))
	}
	if len(enWords) == 0 {
		issues = append(issues, configIssue(ctx, spellDictID, "missing English dictionary"))
	}

	checker := &wordChecker{
		custom:                  customWords,
		ru:                      ruWords,
		en:                      enWords,
		ruWithCustom:            dict.Union(ruWords, customWords),
		minLength:               r.MinWordLength,
		ignoreUppercaseAcronyms: r.IgnoreUppercaseAcronyms,
	}

	scanner := &tex.WordScanner{
		IgnoreEnvs:        stringSet(r.IgnoreEnvs),
		SkipCommands:      stringSet(r.SkipCommands),
		KeepCommands:      stringSet(r.KeepCommands),
		SkipTwoArgs:       spellSkipTwoArgs,
		SecondArgCommands: spellSecondArgCommands,
	}

	for _, f := range ctx.Document.Files {
		for _, word := range scanner.Words(f.Text) {
			for _, part := range splitHyphenated(word) {
				issues = checker.check(part, f, issues)
			}
		}
	}
	return issues
}

type wordChecker struct {
	custom                  dict.Set
	ru                      dict.Set
	en                      dict.Set
	ruWithCustom            dict.Set
	minLength               int
	ignoreUppercaseAcronyms bool
}

func (c *wordChecker) check(w tex.Word, f *document.SourceFile, issues []issue.Issue) []issue.Issue {
	word := w.Text
	if utf8.RuneCountInString(word) < c.minLength {
		return issues
	}
	if c.ignoreUppercaseAcronyms && isAcronym(word) {
		return issues
	}
	if strings.ContainsFunc(word, unicode.IsDigit) {
		return issues
	}
	if isMixedScript(word) {
		return issues
	}

	lowered := strings.ToLower(word)
	if pixelForms[lowered] {
		return append(issues, fileIssue(f, w.Offset, spellBannedID, "use 'пиксел' without soft sign"))
	}
	if pixelAllowedForms[lowered] {
		return issues
	}

	if isCyrillic(word) {
		if len(c.ru) == 0 {
			return issues
		}
		if c.custom.Contains(lowered) || c.ru.Contains(lowered) {
			if requiresYo(lowered, c.ruWithCustom) {
				return append(issues, fileIssue(f, w.Offset, spellYoID, "use 'ё' instead of 'е'"))
			}
			return issues
		}
		return append(issues, fileIssue(f, w.Offset, spellUnknownID, fmt.Sprintf("unknown word '%s'", word)))
	}

	if isLatin(word) && len(c.en) > 0 {
		if c.custom.Contains(lowered) || c.en.Contains(lowered) {
			return issues
		}
		return append(issues, fileIssue(f, w.Offset, spellUnknownID, fmt.Sprintf("unknown word '%s'", word)))
	}
	return issues
}

// maxYoCandidates caps the subset enumeration of the ё substitution search.
// Words with up to 7 "е" letters are covered exhaustively; longer words are
// checked only for the first 128 candidates in generation order. The cap is
// a deliberate cost bound, not an accuracy target.
const maxYoCandidates = 128

// requiresYo reports whether a dictionary word spelled with a plain "е"
// has a dictionary-preferred spelling using "ё". Subsets of the "е"
// positions are enumerated skip-first (depth-first), substituting "ё" at
// the taken positions, stopping at the first dictionary hit.
func requiresYo(word string, dictionary dict.Set) bool {
	if !strings.Contains(word, "е") || strings.Contains(word, "ё") {
		return false
	}
	runes := []rune(word)
	var positions []int
	for i, r := range runes {
		if r == 'е' {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return false
	}

	search := yoSearch{positions: positions, dictionary: dictionary}
	search.walk(0, runes, false)
	return search.found
}

type yoSearch struct {
	positions  []int
	dictionary dict.Set
	checked    int
	found      bool
}

func (s *yoSearch) walk(posIndex int, runes []rune, replaced bool) {
	if s.found || s.checked >= maxYoCandidates {
		return
	}
	if posIndex == len(s.positions) {
		if replaced {
			s.checked++
			if s.dictionary.Contains(string(runes)) {
				s.found = true
			}
		}
		return
	}
	s.walk(posIndex+1, runes, replaced)
	runes[s.positions[posIndex]] = 'ё'
	s.walk(posIndex+1, runes, true)
	runes[s.positions[posIndex]] = 'е'
}

// splitHyphenated breaks a hyphen-joined word into its parts, preserving
// offsets.
func splitHyphenated(w tex.Word) []tex.Word {
	if !strings.Contains(w.Text, "-") {
		return []tex.Word{w}
	}
	var parts []tex.Word
	offset := w.Offset
	for _, part := range strings.Split(w.Text, "-") {
		if part != "" {
			parts = append(parts, tex.Word{Text: part, Offset: offset})
		}
		offset += len(part) + 1
	}
	return parts
}

func existingPaths(paths []string) []string {
	var out []string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			out = append(out, path)
		}
	}
	return out
}

// isAcronym reports a short all-uppercase word (up to 5 letters).
func isAcronym(word string) bool {
	if utf8.RuneCountInString(word) > 5 {
		return false
	}
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isCyrillicLetter(r rune) bool {
	lower := unicode.ToLower(r)
	return (lower >= 'а' && lower <= 'я') || r == 'ё' || r == 'Ё'
}

func isLatinLetter(r rune) bool {
	lower := unicode.ToLower(r)
	return lower >= 'a' && lower <= 'z'
}

func isCyrillic(word string) bool {
	for _, r := range word {
		if !isCyrillicLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

func isLatin(word string) bool {
	for _, r := range word {
		if !isLatinLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

func isMixedScript(word string) bool {
	hasCyrillic := strings.ContainsFunc(word, isCyrillicLetter)
	hasLatin := strings.ContainsFunc(word, isLatinLetter)
	return hasCyrillic && hasLatin
}
