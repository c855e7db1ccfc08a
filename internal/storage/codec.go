package storage

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/conorfennell/flashcards/internal/domain"
)

// Codec turns the card collection into file content and back.
type Codec interface {
	Marshal(cards []domain.Card) ([]byte, error)
	Unmarshal(data []byte) ([]domain.Card, error)
}

// JSONCodec writes an indented JSON array. Non-ASCII text is written as is.
type JSONCodec struct{}

func (JSONCodec) Marshal(cards []domain.Card) ([]byte, error) {
	if cards == nil {
		cards = []domain.Card{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cards); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonCard reads due as text so that ISO-8601 timestamps without an offset
// load too. A due date that cannot be parsed is left zero.
type jsonCard struct {
	domain.Card
	Due string `json:"due"`
}

func (JSONCodec) Unmarshal(data []byte) ([]domain.Card, error) {
	var records []jsonCard
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	cards := make([]domain.Card, len(records))
	for i, r := range records {
		cards[i] = r.Card
		if due, err := parseTimestamp(r.Due); err == nil {
			cards[i].Due = due
		}
	}
	return cards, nil
}

// YAMLCodec writes a YAML sequence using the same field names as JSON.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(cards []domain.Card) ([]byte, error) {
	if cards == nil {
		cards = []domain.Card{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cards); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte) ([]domain.Card, error) {
	var cards []domain.Card
	if err := yaml.Unmarshal(data, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
