package xmlevent

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"iter"
	"strings"

	xpp "github.com/mmcdole/goxpp"
)

const xmlNamespaceURL = "http://www.w3.org/XML/1998/namespace"

var (
	ErrNoRootElement    = errors.New("document has no root element")
	ErrContentAfterRoot = errors.New("content after root element")
)

// Events returns the event sequence for data. The sequence starts with
// StartDocument and ends with exactly one EndDocument or Error event.
// Every range over it tokenizes data again from the beginning.
func Events(data []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		t := newTokenizer(data)
		if !yield(Event{Kind: StartDocument}) {
			return
		}
		for {
			ev, done := t.next()
			if !yield(ev) || done {
				return
			}
		}
	}
}

// tokenizer adapts the goxpp pull parser. goxpp resolves namespace prefixes
// to URLs, so the tokenizer keeps its own URL->prefix scopes to report
// names the way they were written ("media:content").
type tokenizer struct {
	parser  *xpp.XMLPullParser
	scopes  []map[string]string
	open    []string
	sawRoot bool
}

func newTokenizer(data []byte) *tokenizer {
	return &tokenizer{
		parser: xpp.NewXMLPullParser(bytes.NewReader(data), true, nil),
	}
}

func (t *tokenizer) next() (ev Event, done bool) {
	defer func() {
		if r := recover(); r != nil {
			ev, done = Fail(fmt.Errorf("tokenizer panic: %v", r)), true
		}
	}()

	for {
		kind, err := t.parser.Next()
		if err != nil {
			return Fail(err), true
		}

		switch kind {
		case xpp.StartTag:
			if t.closedRoot() {
				return Fail(ErrContentAfterRoot), true
			}
			t.pushScope(t.parser.Attrs)
			name := t.qualify(t.parser.Space, t.parser.Name)
			t.open = append(t.open, name)
			t.sawRoot = true
			return Event{Kind: StartElement, Name: name, Attrs: t.convertAttrs(t.parser.Attrs)}, false

		case xpp.EndTag:
			// Strict mode guarantees end tags match, so the open stack holds
			// the name as it was reported on the way in.
			name := t.qualify(t.parser.Space, t.parser.Name)
			if n := len(t.open); n > 0 {
				name = t.open[n-1]
				t.open = t.open[:n-1]
			}
			t.popScope()
			return End(name), false

		case xpp.Text:
			if t.closedRoot() && strings.TrimSpace(t.parser.Text) != "" {
				return Fail(ErrContentAfterRoot), true
			}
			return Text(t.parser.Text), false

		case xpp.EndDocument:
			if !t.sawRoot {
				return Fail(ErrNoRootElement), true
			}
			return Event{Kind: EndDocument}, true
		}
	}
}

// closedRoot reports whether the root element has already ended. The
// decoder underneath accepts several top-level elements.
func (t *tokenizer) closedRoot() bool {
	return t.sawRoot && len(t.open) == 0
}

func (t *tokenizer) pushScope(attrs []xml.Attr) {
	var scope map[string]string
	for _, attr := range attrs {
		switch {
		case attr.Name.Space == "xmlns":
			if scope == nil {
				scope = make(map[string]string)
			}
			scope[attr.Value] = attr.Name.Local
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			if scope == nil {
				scope = make(map[string]string)
			}
			scope[attr.Value] = ""
		}
	}
	t.scopes = append(t.scopes, scope)
}

func (t *tokenizer) popScope() {
	if n := len(t.scopes); n > 0 {
		t.scopes = t.scopes[:n-1]
	}
}

func (t *tokenizer) qualify(space, local string) string {
	if space == "" {
		return local
	}
	if space == xmlNamespaceURL {
		return "xml:" + local
	}
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if prefix, ok := t.scopes[i][space]; ok {
			if prefix == "" {
				return local
			}
			return prefix + ":" + local
		}
	}
	// Undeclared prefixes are left untranslated by the decoder.
	return space + ":" + local
}

func (t *tokenizer) convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	for _, attr := range attrs {
		var name string
		switch {
		case attr.Name.Space == "xmlns":
			name = "xmlns:" + attr.Name.Local
		case attr.Name.Space == "":
			name = attr.Name.Local
		default:
			name = t.qualify(attr.Name.Space, attr.Name.Local)
		}
		out = append(out, Attr{Name: name, Value: attr.Value})
	}
	return out
}

// Collect drains seq into a slice.
func Collect(seq iter.Seq[Event]) []Event {
	var events []Event
	for ev := range seq {
		events = append(events, ev)
	}
	return events
}

// Slice returns a sequence over a fixed list of events.
func Slice(events ...Event) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}
