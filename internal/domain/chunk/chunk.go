package chunk

// Chunk is one retrieved vector-store hit with its text payload.
type Chunk struct {
	id      string
	score   float64
	text    string
	hasText bool
}

// New creates a chunk that carries text.
func New(id string, score float64, text string) Chunk {
	return Chunk{id: id, score: score, text: text, hasText: true}
}

// WithoutText creates a chunk whose payload lacked the text field.
func WithoutText(id string, score float64) Chunk {
	return Chunk{id: id, score: score}
}

// ID returns the store key of the hit.
func (c Chunk) ID() string { return c.id }

// Score returns the similarity score (higher is closer).
func (c Chunk) Score() float64 { return c.score }

// Text returns the payload text.
func (c Chunk) Text() string { return c.text }

// HasText reports whether the payload contained the text field.
func (c Chunk) HasText() bool { return c.hasText }
