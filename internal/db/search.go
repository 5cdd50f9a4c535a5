package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	Collection   string
	Vector       []float32
	K            int
	ReturnFields []string // payload fields to fetch; empty means all
}

// SearchResult is the output of a search operation, ranked closest first.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit. Fields holds string-valued payload entries only.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
