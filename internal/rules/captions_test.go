package rules

import "testing"

func TestCaptionPunctuation(t *testing.T) {
	rule := CaptionPunctuation{
		Commands:       []string{"caption", "captionof"},
		ForbidTrailing: []string{".", ",", ";", ":", "!", "?"},
	}
	tests := []struct {
		name string
		text string
		want int
	}{
		{"clean", `\caption{Схема работы}`, 0},
		{"trailing period", `\caption{Схема работы.}`, 1},
		{"trailing colon", `\caption{Схема:}`, 1},
		{"label after text", `\caption{Схема \label{fig:a}}`, 0},
		{"period before label", `\caption{Схема. \label{fig:a}}`, 1},
		{"captionof", `\captionof{figure}{Подпись.}`, 1},
		{"no argument", `\caption`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := rule.Check(docCtx(tt.text))
			if len(issues) != tt.want {
				t.Errorf("issues = %d, want %d", len(issues), tt.want)
			}
		})
	}
}
