// Package document assembles the multi-file source tree of a LaTeX-like
// document: the root file plus the files it includes one level deep, each
// with a line-offset table for mapping byte offsets to positions.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

var includeRe = regexp.MustCompile(`\\(?:include|input)\s*\{([^}]+)\}`)

// SourceFile is one readable source file. Immutable after load.
type SourceFile struct {
	Path        string
	Text        string
	lineOffsets []int
}

// FromText builds a SourceFile from in-memory text.
func FromText(path, text string) *SourceFile {
	return &SourceFile{Path: path, Text: text, lineOffsets: buildLineOffsets(text)}
}

// LineCol converts a byte offset into a 1-based (line, column) pair.
func (f *SourceFile) LineCol(offset int) (line, col int) {
	if offset < 0 {
		return 1, 1
	}
	idx := sort.Search(len(f.lineOffsets), func(i int) bool {
		return f.lineOffsets[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - f.lineOffsets[idx] + 1
}

// LineText returns the text of the given 1-based line without its trailing
// newline.
func (f *SourceFile) LineText(line int) string {
	if line < 1 || line > len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[line-1]
	if line < len(f.lineOffsets) {
		return strings.TrimRight(f.Text[start:f.lineOffsets[line]], "\n")
	}
	return strings.TrimRight(f.Text[start:], "\n")
}

// Document is the ordered, deduplicated sequence of source files: the root
// first, then its directly included files in textual appearance order.
type Document struct {
	Files   []*SourceFile
	BaseDir string
}

// PathIndex maps each file path to its position in the document order.
func (d *Document) PathIndex() map[string]int {
	idx := make(map[string]int, len(d.Files))
	for i, f := range d.Files {
		idx[f.Path] = i
	}
	return idx
}

// Load reads the root file, extracts its \include / \input targets (comments
// stripped first, one level only), deduplicates the candidate list by
// absolute path with the first occurrence winning, drops entries matched by
// an exclusion pattern or missing from disk, and materializes the rest.
// Only an unreadable root file is an error.
func Load(rootPath string, exclude []string) (*Document, error) {
	rootText, err := os.ReadFile(rootPath)
	if err != nil {
		return nil, fmt.Errorf("document: read root: %w", err)
	}
	baseDir := filepath.Dir(rootPath)

	candidates := append([]string{rootPath}, collectIncludes(string(rootText), baseDir)...)

	var files []*SourceFile
	seen := make(map[string]bool)
	for _, path := range candidates {
		resolved := absPath(path)
		if seen[resolved] {
			continue
		}
		seen[resolved] = true
		if isExcluded(path, exclude) {
			continue
		}
		if path == rootPath {
			files = append(files, FromText(path, string(rootText)))
			continue
		}
		text, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		files = append(files, FromText(path, string(text)))
	}
	return &Document{Files: files, BaseDir: baseDir}, nil
}

// collectIncludes extracts include targets from comment-stripped root text.
// A missing extension defaults to .tex; relative paths resolve against the
// root's directory.
func collectIncludes(rootText, baseDir string) []string {
	masked := tex.StripComments(rootText)
	var out []string
	for _, m := range includeRe.FindAllStringSubmatch(masked, -1) {
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		if filepath.Ext(raw) == "" {
			raw += ".tex"
		}
		if !filepath.IsAbs(raw) {
			raw = filepath.Join(baseDir, raw)
		}
		out = append(out, raw)
	}
	return out
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// isExcluded matches a path against exclusion patterns: an exact basename,
// or a glob applied to both the basename and the full path.
func isExcluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if filepath.Base(pattern) == pattern && base == pattern {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func buildLineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
