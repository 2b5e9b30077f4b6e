package feed

import (
	"fmt"

	"github.com/lysyi3m/newsdeck/app/xmlevent"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run reduces an RSS document to its entries. A document that fails to
// tokenize, or ends in the middle of an item, yields no entries and an
// error wrapping ErrMalformed; a well-formed document without items yields
// an empty, non-nil slice.
func (p *Parser) Run(data []byte) ([]Entry, error) {
	entries, err := Fold(xmlevent.Events(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return entries, nil
}

func Parse(data []byte) ([]Entry, error) {
	return NewParser().Run(data)
}

// ParseOrEmpty collapses failures to an empty list, for callers that only
// display entries and do not report errors.
func ParseOrEmpty(data []byte) []Entry {
	entries, err := Parse(data)
	if err != nil {
		return []Entry{}
	}
	return entries
}
