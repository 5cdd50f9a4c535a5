package chunk

import "testing"

func TestChunk(t *testing.T) {
	c := New("1", 0.9, "RAG combines retrieval and generation.")
	if c.ID() != "1" || c.Score() != 0.9 || c.Text() != "RAG combines retrieval and generation." || !c.HasText() {
		t.Errorf("unexpected chunk: %+v", c)
	}

	empty := New("2", 0.5, "")
	if !empty.HasText() {
		t.Error("empty text is still present text")
	}

	missing := WithoutText("3", 0.1)
	if missing.HasText() || missing.Text() != "" {
		t.Errorf("expected chunk without text: %+v", missing)
	}
}
