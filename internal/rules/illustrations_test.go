package rules

import "testing"

var illRule = IllustrationOrder{
	Envs:        []string{"figure", "table", "figure*", "table*"},
	RefCommands: []string{"ref", "autoref", "cref"},
}

const figureBlock = "\\begin{figure}\n\\caption{Схема}\\label{fig:a}\n\\end{figure}\n"

func TestIllustrationReferencedBefore(t *testing.T) {
	issues := illRule.Check(docCtx("См. рисунок~\\ref{fig:a}.\n" + figureBlock))
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestIllustrationReferencedAfter(t *testing.T) {
	issues := illRule.Check(docCtx(figureBlock + "См. рисунок~\\ref{fig:a}.\n"))
	if countByRule(issues, "ILL001") != 1 {
		t.Errorf("issues = %v, want one ILL001", issues)
	}
}

func TestIllustrationNeverReferenced(t *testing.T) {
	issues := illRule.Check(docCtx(figureBlock))
	if countByRule(issues, "ILL002") != 1 {
		t.Errorf("issues = %v, want one ILL002", issues)
	}
}

func TestIllustrationCrossFileOrder(t *testing.T) {
	// The reference lives in an earlier file than the figure.
	issues := illRule.Check(docCtx("см.~\\ref{fig:a}", figureBlock))
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestIllustrationStarredEnv(t *testing.T) {
	block := "\\begin{figure*}\\label{fig:b}\\end{figure*}"
	issues := illRule.Check(docCtx(block))
	if countByRule(issues, "ILL002") != 1 {
		t.Errorf("issues = %v, want one ILL002", issues)
	}
}

func TestIllustrationMultiLabelRef(t *testing.T) {
	text := "см.~\\cref{fig:a,fig:b}\n" +
		"\\begin{figure}\\label{fig:a}\\end{figure}\n" +
		"\\begin{figure}\\label{fig:b}\\end{figure}\n"
	issues := illRule.Check(docCtx(text))
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}
