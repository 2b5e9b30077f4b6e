package feed

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/lysyi3m/newsdeck/app/xmlevent"
)

var (
	ErrMalformed = errors.New("malformed feed document")

	errUnterminatedItem  = errors.New("document ended inside <item>")
	errTruncatedStream   = errors.New("event stream ended before end of document")
	errUnknownParseError = errors.New("parse error")
)

type phase int

const (
	phaseIdle phase = iota
	phaseInItem
	phaseDone
	phaseFailed
)

// State is the reducer state for one document. The zero value is the
// initial state. States are values: Reduce never mutates its input.
type State struct {
	phase phase
	leaf  string // most recently started, not yet ended element

	titleBuf   string
	linkBuf    string
	excerptBuf string
	imageURL   *string

	entries []Entry
	err     error
}

func NewState() State {
	return State{}
}

// Finished reports whether the state is terminal.
func (s State) Finished() bool {
	return s.phase == phaseDone || s.phase == phaseFailed
}

// Result returns the entries of a completed document, or an error wrapping
// ErrMalformed when the document failed or never completed. Entries are
// never returned together with an error.
func (s State) Result() ([]Entry, error) {
	switch s.phase {
	case phaseDone:
		entries := make([]Entry, len(s.entries))
		copy(entries, s.entries)
		return entries, nil
	case phaseFailed:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, s.err)
	case phaseInItem:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, errUnterminatedItem)
	default:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, errTruncatedStream)
	}
}

// Reduce applies one event to the state.
func Reduce(s State, ev xmlevent.Event) State {
	if s.Finished() {
		return s
	}

	switch ev.Kind {
	case xmlevent.Error:
		err := ev.Err
		if err == nil {
			err = errUnknownParseError
		}
		return State{phase: phaseFailed, err: err}

	case xmlevent.EndDocument:
		if s.phase == phaseInItem {
			return State{phase: phaseFailed, err: errUnterminatedItem}
		}
		s.phase = phaseDone
		s.leaf = ""
		return s

	case xmlevent.StartElement:
		if ev.Name == "item" {
			return s.beginItem()
		}
		if s.phase != phaseInItem {
			return s
		}
		s.leaf = ev.Name
		switch strings.ToLower(ev.Name) {
		case "media:content", "enclosure":
			if url, ok := ev.Attr("url"); ok {
				s.imageURL = &url
			}
		}
		return s

	case xmlevent.CharData:
		if s.phase != phaseInItem {
			return s
		}
		chunk := strings.TrimSpace(ev.Text)
		if chunk == "" {
			return s
		}
		switch strings.ToLower(s.leaf) {
		case "title":
			s.titleBuf += chunk + " "
		case "link":
			// Link runs are joined without a separator, unlike title and
			// description.
			s.linkBuf += chunk
		case "description":
			s.excerptBuf += chunk + " "
		}
		return s

	case xmlevent.EndElement:
		if s.phase != phaseInItem {
			return s
		}
		if ev.Name == "item" {
			return s.endItem()
		}
		if ev.Name == s.leaf {
			s.leaf = ""
		}
		return s
	}

	return s
}

func (s State) beginItem() State {
	return State{
		phase:   phaseInItem,
		leaf:    "item",
		entries: s.entries,
	}
}

func (s State) endItem() State {
	entry := Entry{
		Title:    strings.TrimSpace(s.titleBuf),
		Link:     strings.TrimSpace(s.linkBuf),
		Excerpt:  strings.TrimSpace(s.excerptBuf),
		ImageURL: s.imageURL,
	}
	// Full slice expression so earlier states never see this append.
	entries := append(s.entries[:len(s.entries):len(s.entries)], entry)
	return State{phase: phaseIdle, entries: entries}
}

// Fold reduces an event sequence to its entries. Consumption stops at the
// first terminal event.
func Fold(events iter.Seq[xmlevent.Event]) ([]Entry, error) {
	s := NewState()
	for ev := range events {
		s = Reduce(s, ev)
		if s.Finished() {
			break
		}
	}
	return s.Result()
}
