package tex

import (
	"reflect"
	"strings"
	"testing"
)

func TestEnvTokens(t *testing.T) {
	text := `\begin{itemize}\item x\end{itemize}`
	tokens := EnvTokens(text)
	if len(tokens) != 2 {
		t.Fatalf("tokens = %d, want 2", len(tokens))
	}
	if tokens[0].Kind != "begin" || tokens[0].Name != "itemize" || tokens[0].Offset != 0 {
		t.Errorf("begin token = %+v", tokens[0])
	}
	if tokens[1].Kind != "end" || tokens[1].Name != "itemize" {
		t.Errorf("end token = %+v", tokens[1])
	}
}

func TestCollectEnvBlocks(t *testing.T) {
	text := `\begin{figure}x\end{figure}`
	envs := map[string]bool{"figure": true}
	blocks := CollectEnvBlocks(text, envs)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0].Start != 0 || blocks[0].End != strings.Index(text, `\end`) {
		t.Errorf("block = %+v", blocks[0])
	}
}

func TestCollectEnvBlocksMismatchedEnd(t *testing.T) {
	// The inner table is never closed; the figure end discards it.
	text := `\begin{figure}\begin{table}\end{figure}`
	envs := map[string]bool{"figure": true, "table": true}
	blocks := CollectEnvBlocks(text, envs)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0].Name != "figure" || blocks[0].Start != 0 {
		t.Errorf("block = %+v", blocks[0])
	}
}

func TestCollectEnvBlocksUnmatchedBegin(t *testing.T) {
	blocks := CollectEnvBlocks(`\begin{figure}x`, map[string]bool{"figure": true})
	if len(blocks) != 0 {
		t.Errorf("blocks = %d, want 0", len(blocks))
	}
}

func TestMatchingBrace(t *testing.T) {
	tests := []struct {
		text  string
		start int
		want  int
		ok    bool
	}{
		{"{a{b}c}", 0, 6, true},
		{"{a{b}c}", 2, 4, true},
		{`{a\}b}`, 0, 5, true},
		{"{unclosed", 0, 0, false},
		{"no brace", 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := MatchingBrace(tt.text, tt.start)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MatchingBrace(%q, %d) = %d, %v; want %d, %v", tt.text, tt.start, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSplitOptions(t *testing.T) {
	got := SplitOptions(`width=0.9\textwidth, style={a,b}, keep`)
	want := []string{`width=0.9\textwidth`, `style={a,b}`, "keep"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitOptions = %v, want %v", got, want)
	}
}

func TestCommandSpans(t *testing.T) {
	text := `\includegraphics[width=0.9\textwidth]{img.png} tail`
	spans := CommandSpans(text, "includegraphics")
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if !s.HasOptional || s.Optional != `width=0.9\textwidth` {
		t.Errorf("optional = %q (has=%v)", s.Optional, s.HasOptional)
	}
	if !s.HasArg || s.Arg != "img.png" {
		t.Errorf("arg = %q (has=%v)", s.Arg, s.HasArg)
	}
	if text[s.Start:s.Start+1] != `\` {
		t.Errorf("start = %d", s.Start)
	}
}

func TestCommandSpansNoArg(t *testing.T) {
	spans := CommandSpans(`\caption without braces`, "caption")
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].HasArg || spans[0].HasOptional {
		t.Errorf("unexpected args: %+v", spans[0])
	}
}

func TestCommandSpansWordBoundary(t *testing.T) {
	// \reference must not match as \ref.
	spans := CommandSpans(`\reference{x}`, "ref")
	if len(spans) != 0 {
		t.Errorf("spans = %d, want 0", len(spans))
	}
}

func TestCommandPatternEmpty(t *testing.T) {
	if CommandPattern(nil).MatchString(`\ref{x}`) {
		t.Error("empty pattern matched")
	}
}

func TestMaskCommandArguments(t *testing.T) {
	got := MaskCommandArguments(`\ref{fig:one} text`, []string{"ref"}, nil)
	want := `\ref{       } text`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMaskCommandArgumentsTwoArg(t *testing.T) {
	in := `\href{url}{text} after`
	got := MaskCommandArguments(in, []string{"href"}, map[string]bool{"href": true})
	want := `\href{   }{    } after`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(got) != len(in) {
		t.Errorf("length changed")
	}
}
