package search

// Doc is the searchable text of one rendered card.
type Doc struct {
	Card    int
	Title   string
	Type    string
	Year    string
	Remarks string
	Cast    string
	Source  string
}

// Result is a card that matched a query.
type Result struct {
	Card    int
	Title   string
	Score   float64
	Matches []Match
}

// Match records which field matched and how strongly.
type Match struct {
	Field  string
	Text   string
	Weight float64
}

// Searcher finds cards in the grid by text. Index is called as cards are
// appended; Reset when the grid is cleared.
type Searcher interface {
	Index(docs []Doc) error
	Search(query string, limit int) ([]*Result, error)
	Reset() error
}

// DebugStatser reports index size for the status bar.
type DebugStatser interface {
	DocCount() (int, error)
}

// New returns the bleve-backed searcher, or the scanning engine when the
// in-memory index cannot be created.
func New() Searcher {
	if eng, err := NewBleveEngine(); err == nil {
		return eng
	}
	return NewEngine()
}
