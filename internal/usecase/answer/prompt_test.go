package answer

import (
	"strings"
	"testing"
)

func TestFormatPrompt(t *testing.T) {
	got, err := FormatPrompt("RAG combines retrieval and generation.\nIt reduces hallucination.", "What is RAG?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Answer the question based on the following context:\n" +
		"Context: RAG combines retrieval and generation.\nIt reduces hallucination.\n\n" +
		"Question: What is RAG?\n\n" +
		"Answer:"
	if got != want {
		t.Errorf("prompt mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatPrompt_EmptyContext(t *testing.T) {
	got, err := FormatPrompt("", "Anything?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Context: \n\nQuestion: Anything?") {
		t.Errorf("expected empty context slot, got %q", got)
	}
}

func TestFormatPrompt_NoEscaping(t *testing.T) {
	got, err := FormatPrompt(`<b>"quoted" & {{braces}}</b>`, "a < b?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `Context: <b>"quoted" & {{braces}}</b>`) {
		t.Errorf("context was altered: %q", got)
	}
	if !strings.Contains(got, "Question: a < b?") {
		t.Errorf("question was altered: %q", got)
	}
}
