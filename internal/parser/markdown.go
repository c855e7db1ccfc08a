package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/conorfennell/flashcards/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	contextPrefix  = "C:"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingContext
)

// ParseMarkdown extracts Q:/A:/C: blocks. The question becomes the front,
// the answer the back and the context the notes. Blocks may span several
// lines; a new Q: or a "---" line ends the current card.
func ParseMarkdown(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	var current Record
	var block []string
	currentState := seeking
	lineNo := 0

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n")
		switch currentState {
		case readingQuestion:
			current.Front = content
		case readingAnswer:
			current.Back = content
		case readingContext:
			current.Notes = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" {
			records = append(records, current)
		}
		current = Record{}
		currentState = seeking
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == "---" {
			finishCard()
			continue
		}

		prefix, next := "", seeking
		switch {
		case strings.HasPrefix(line, questionPrefix):
			prefix, next = questionPrefix, readingQuestion
		case strings.HasPrefix(line, answerPrefix):
			prefix, next = answerPrefix, readingAnswer
		case strings.HasPrefix(line, contextPrefix):
			prefix, next = contextPrefix, readingContext
		}

		if next == seeking {
			if currentState != seeking {
				block = append(block, line)
			}
			continue
		}

		flushBlock()
		if next == readingQuestion {
			if currentState != seeking { // A new question always starts a new card
				finishCard()
			}
			current.Line = lineNo
		}
		currentState = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("%w: reading line %d: %w", domain.ErrImportParse, lineNo+1, err)
	}

	return records, nil
}
