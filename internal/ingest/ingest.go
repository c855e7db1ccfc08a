// Package ingest imports every card file found under a directory tree.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
)

// Result summarizes a directory scan.
type Result struct {
	Files    int     // card files read
	Imported int     // cards added to the deck
	Errors   []error // per-file failures, including rejected rows
}

// FileError ties an import failure to the file it came from.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// importer returns the deck import function for a file name, or nil when
// the file is not a card file.
func importer(d *deck.Deck, name string) func(string) ([]*domain.Card, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv", ".txt":
		return d.ImportTSV
	case ".md", ".markdown":
		return d.ImportMarkdown
	}
	return nil
}

// ScanDir walks dir and imports every .tsv, .txt and .md file into d, in
// lexical path order. A file that fails to read or has rejected rows is
// recorded in Result.Errors and the walk continues; the returned error is
// only set when dir itself cannot be walked.
func ScanDir(d *deck.Deck, dir string, log *logger.Logger) (Result, error) {
	var res Result
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			res.Errors = append(res.Errors, &FileError{Path: path, Err: err})
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		importFn := importer(d, entry.Name())
		if importFn == nil {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			res.Errors = append(res.Errors, &FileError{Path: path, Err: err})
			return nil
		}
		res.Files++
		created, err := importFn(string(raw))
		res.Imported += len(created)
		if err != nil {
			res.Errors = append(res.Errors, &FileError{Path: path, Err: err})
		}
		log.Debug("scanned card file", "path", path, "imported", len(created))
		return nil
	})
	if walkErr != nil {
		return res, fmt.Errorf("scanning %s: %w", dir, walkErr)
	}

	log.Info("scan complete",
		"path", dir,
		"files", res.Files,
		"imported", res.Imported,
		"errors", len(res.Errors),
	)
	return res, nil
}

// Err joins the per-file errors, or returns nil when there were none.
func (r Result) Err() error {
	return errors.Join(r.Errors...)
}
