package deck

import (
	"slices"
	"strings"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/fingerprint"
	"github.com/conorfennell/flashcards/internal/parser"
)

// ImportTSV creates one card per front<TAB>back<TAB>notes line and places
// them, in file order, at the front of the deck. Rows that cannot be read
// or fail validation are reported in a *domain.ImportError; the cards
// created from the other rows are still added and returned.
func (d *Deck) ImportTSV(raw string) ([]*domain.Card, error) {
	records, err := parser.ParseTSV(strings.NewReader(raw))
	return d.importRecords("tsv", records, err)
}

// ImportMarkdown does the same as ImportTSV for Q:/A:/C: formatted text.
func (d *Deck) ImportMarkdown(raw string) ([]*domain.Card, error) {
	records, err := parser.ParseMarkdown(strings.NewReader(raw))
	return d.importRecords("markdown", records, err)
}

func (d *Deck) importRecords(format string, records []parser.Record, parseErr error) ([]*domain.Card, error) {
	rejected, ok := asImportError(parseErr)
	if !ok {
		// Reading stopped early; keep what was read before the failure.
		rejected = &domain.ImportError{}
	}

	var known map[string]bool
	if d.skipDuplicates {
		known = make(map[string]bool, len(d.cards))
		for _, c := range d.cards {
			known[fingerprint.Of(c.Front, c.Back, c.Notes)] = true
		}
	}

	var created []*domain.Card
	skipped := 0
	for _, rec := range records {
		if known != nil {
			fp := fingerprint.Of(rec.Front, rec.Back, rec.Notes)
			if known[fp] {
				skipped++
				continue
			}
			known[fp] = true
		}
		c, err := d.newCard(rec.Front, rec.Back, rec.Notes)
		if err != nil {
			rejected.Add(rec.Line, err)
			continue
		}
		created = append(created, c)
	}
	d.cards = slices.Insert(d.cards, 0, created...)

	d.log.Info("import finished",
		"format", format,
		"imported", len(created),
		"skipped_duplicates", skipped,
		"rejected", len(rejected.Rows),
	)

	if !ok {
		return created, parseErr
	}
	return created, rejected.OrNil()
}

// asImportError reports whether err is nil or a row-level import error,
// as opposed to a failure that stopped reading altogether.
func asImportError(err error) (*domain.ImportError, bool) {
	if err == nil {
		return &domain.ImportError{}, true
	}
	ie, ok := err.(*domain.ImportError)
	return ie, ok
}

// ExportTSV renders cards as front<TAB>back<TAB>notes lines. Tabs and line
// breaks inside a field are replaced by a single space.
func ExportTSV(cards []*domain.Card) string {
	records := make([]parser.Record, len(cards))
	for i, c := range cards {
		records[i] = parser.Record{Front: c.Front, Back: c.Back, Notes: c.Notes}
	}
	return parser.FormatTSV(records)
}
