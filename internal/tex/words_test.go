package tex

import "testing"

func wordTexts(words []Word) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w.Text)
	}
	return out
}

func TestIsWord(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"привет", true},
		{"hello", true},
		{"чёрно-белый", true},
		{"a b", false},
		{"x1", false},
		{"", false},
		{"-", false},
	}
	for _, tt := range tests {
		if got := IsWord(tt.in); got != tt.want {
			t.Errorf("IsWord(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWordsBasic(t *testing.T) {
	s := &WordScanner{}
	words := s.Words("Привет мир")
	if len(words) != 2 {
		t.Fatalf("words = %v", wordTexts(words))
	}
	if words[0].Text != "Привет" || words[0].Offset != 0 {
		t.Errorf("first = %+v", words[0])
	}
	if words[1].Text != "мир" || words[1].Offset != len("Привет ") {
		t.Errorf("second = %+v", words[1])
	}
}

func TestWordsSkipCommand(t *testing.T) {
	s := &WordScanner{SkipCommands: map[string]bool{"ref": true}}
	words := s.Words(`см\ref{fig:label} слово`)
	got := wordTexts(words)
	if len(got) != 2 || got[0] != "см" || got[1] != "слово" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsUnknownCommandRecurses(t *testing.T) {
	s := &WordScanner{}
	words := s.Words(`\textbf{жирный} текст`)
	got := wordTexts(words)
	if len(got) != 2 || got[0] != "жирный" || got[1] != "текст" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsKeepOverridesSkip(t *testing.T) {
	s := &WordScanner{
		SkipCommands: map[string]bool{"textbf": true},
		KeepCommands: map[string]bool{"textbf": true},
	}
	words := s.Words(`\textbf{жирный}`)
	if len(words) != 1 || words[0].Text != "жирный" {
		t.Errorf("words = %v", wordTexts(words))
	}
}

func TestWordsIgnoreEnv(t *testing.T) {
	s := &WordScanner{IgnoreEnvs: map[string]bool{"verbatim": true}}
	words := s.Words("до \\begin{verbatim} код тут \\end{verbatim} после")
	got := wordTexts(words)
	if len(got) != 2 || got[0] != "до" || got[1] != "после" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsIgnoreEnvNested(t *testing.T) {
	s := &WordScanner{IgnoreEnvs: map[string]bool{"v": true}}
	text := `a \begin{v} x \begin{v} y \end{v} z \end{v} b`
	got := wordTexts(s.Words(text))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsSecondArgCommand(t *testing.T) {
	s := &WordScanner{SecondArgCommands: map[string]bool{"captionof": true}}
	words := s.Words(`\captionof{figure}{Подпись рисунка}`)
	got := wordTexts(words)
	if len(got) != 2 || got[0] != "Подпись" || got[1] != "рисунка" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsSkipTwoArgs(t *testing.T) {
	s := &WordScanner{
		SkipCommands: map[string]bool{"href": true},
		SkipTwoArgs:  map[string]bool{"href": true},
	}
	words := s.Words(`\href{http://example.com}{текст ссылки} хвост`)
	got := wordTexts(words)
	if len(got) != 1 || got[0] != "хвост" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsSkipMathAndComments(t *testing.T) {
	s := &WordScanner{}
	words := s.Words("до $x+y$ после % скрыто\nконец")
	got := wordTexts(words)
	if len(got) != 3 || got[0] != "до" || got[1] != "после" || got[2] != "конец" {
		t.Errorf("words = %v", got)
	}
}

func TestWordsBetweenAbsoluteOffsets(t *testing.T) {
	s := &WordScanner{}
	text := "один два три"
	start := len("один ")
	words := s.WordsBetween(text, start, len(text))
	if len(words) != 2 {
		t.Fatalf("words = %v", wordTexts(words))
	}
	if words[0].Offset != start {
		t.Errorf("offset = %d, want %d", words[0].Offset, start)
	}
}

func TestWordsHyphenated(t *testing.T) {
	s := &WordScanner{}
	words := s.Words("чёрно-белый снимок")
	got := wordTexts(words)
	if len(got) != 2 || got[0] != "чёрно-белый" {
		t.Errorf("words = %v", got)
	}
}
