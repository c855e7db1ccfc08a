package parser

// Record is one card's worth of text read from an import source.
// Line is the 1-based line the record starts on.
type Record struct {
	Line  int
	Front string
	Back  string
	Notes string
}
