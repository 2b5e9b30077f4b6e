// Package xmlevent turns an XML byte buffer into a flat sequence of typed
// structural events (document start/end, element start/end, character data
// and parse errors) without building a tree.
package xmlevent

import "fmt"

type Kind int

const (
	StartDocument Kind = iota
	StartElement
	CharData
	EndElement
	EndDocument
	Error
)

func (k Kind) String() string {
	switch k {
	case StartDocument:
		return "StartDocument"
	case StartElement:
		return "StartElement"
	case CharData:
		return "CharData"
	case EndElement:
		return "EndElement"
	case EndDocument:
		return "EndDocument"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attr is an attribute with its qualified name ("url", "xml:lang", ...).
type Attr struct {
	Name  string
	Value string
}

// Event is one step of the tokenizer output. Name and Attrs are set for
// element events, Text for CharData and Err for Error.
type Event struct {
	Kind  Kind
	Name  string
	Attrs []Attr
	Text  string
	Err   error
}

// Attr returns the value of the attribute with the given qualified name.
func (e Event) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e Event) String() string {
	switch e.Kind {
	case StartElement, EndElement:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Name)
	case CharData:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	case Error:
		return fmt.Sprintf("%s(%v)", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Convenience constructors, mostly for building event streams by hand.

func Start(name string, attrs ...Attr) Event {
	return Event{Kind: StartElement, Name: name, Attrs: attrs}
}

func Text(text string) Event {
	return Event{Kind: CharData, Text: text}
}

func End(name string) Event {
	return Event{Kind: EndElement, Name: name}
}

func Fail(err error) Event {
	return Event{Kind: Error, Err: err}
}
