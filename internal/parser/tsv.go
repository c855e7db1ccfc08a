package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/conorfennell/flashcards/internal/domain"
)

const maxLineSize = 1 << 20

var (
	errTooManyFields = errors.New("expected at most 3 tab-separated fields")
	errInvalidUTF8   = errors.New("line is not valid UTF-8")
)

// ParseTSV reads front<TAB>back<TAB>notes lines. Missing trailing fields are
// empty and blank lines are skipped. Rows that cannot be read are reported
// in a *domain.ImportError returned together with the rows that could.
func ParseTSV(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	var rejected domain.ImportError
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !utf8.ValidString(line) {
			rejected.Add(lineNo, errInvalidUTF8)
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) > 3 {
			rejected.Add(lineNo, fmt.Errorf("%w, got %d", errTooManyFields, len(fields)))
			continue
		}
		for len(fields) < 3 {
			fields = append(fields, "")
		}
		records = append(records, Record{Line: lineNo, Front: fields[0], Back: fields[1], Notes: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("%w: reading line %d: %w", domain.ErrImportParse, lineNo+1, err)
	}
	return records, rejected.OrNil()
}

// FormatTSV writes one front<TAB>back<TAB>notes line per record, joined by
// newlines. Tabs and line breaks inside a field become single spaces so
// the column structure survives a round trip.
func FormatTSV(records []Record) string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = strings.Join([]string{cleanField(rec.Front), cleanField(rec.Back), cleanField(rec.Notes)}, "\t")
	}
	return strings.Join(lines, "\n")
}

var fieldCleaner = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func cleanField(s string) string {
	return fieldCleaner.Replace(s)
}
