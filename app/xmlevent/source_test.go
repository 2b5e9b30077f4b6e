package xmlevent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestEventsSimpleDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?><rss><channel><item><title>Hello</title></item></channel></rss>`

	events := Collect(Events([]byte(doc)))

	want := []Event{
		{Kind: StartDocument},
		Start("rss"),
		Start("channel"),
		Start("item"),
		Start("title"),
		Text("Hello"),
		End("title"),
		End("item"),
		End("channel"),
		End("rss"),
		{Kind: EndDocument},
	}
	assert.Equal(t, want, events)
}

func TestEventsAttributes(t *testing.T) {
	doc := `<item><enclosure url="http://img/a.jpg" type="image/jpeg"/></item>`

	events := Collect(Events([]byte(doc)))
	require.Len(t, events, 6)

	enclosure := events[2]
	assert.Equal(t, StartElement, enclosure.Kind)
	assert.Equal(t, "enclosure", enclosure.Name)

	url, ok := enclosure.Attr("url")
	assert.True(t, ok)
	assert.Equal(t, "http://img/a.jpg", url)

	_, ok = enclosure.Attr("length")
	assert.False(t, ok)

	assert.Equal(t, End("enclosure"), events[3])
}

func TestEventsQualifiedNames(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "declared prefix",
			doc:  `<rss xmlns:media="http://search.yahoo.com/mrss/"><item><media:content url="x"/></item></rss>`,
		},
		{
			name: "undeclared prefix",
			doc:  `<rss><item><media:content url="x"/></item></rss>`,
		},
		{
			name: "prefix declared on the element itself",
			doc:  `<rss><item><media:content xmlns:media="http://search.yahoo.com/mrss/" url="x"/></item></rss>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Collect(Events([]byte(tt.doc)))
			require.Equal(t, EndDocument, events[len(events)-1].Kind, "events: %v", events)

			var starts, ends []string
			for _, ev := range events {
				switch ev.Kind {
				case StartElement:
					starts = append(starts, ev.Name)
				case EndElement:
					ends = append(ends, ev.Name)
				}
			}
			assert.Equal(t, []string{"rss", "item", "media:content"}, starts)
			assert.Equal(t, []string{"media:content", "item", "rss"}, ends)
		})
	}
}

func TestEventsDefaultNamespace(t *testing.T) {
	doc := `<rss xmlns="http://example.com/ns"><item><title>T</title></item></rss>`

	events := Collect(Events([]byte(doc)))

	assert.Equal(t, "rss", events[1].Name)
	assert.Equal(t, "item", events[2].Name)
	assert.Equal(t, "title", events[3].Name)
}

func TestEventsCDATAIsCharData(t *testing.T) {
	doc := `<title>Hello <![CDATA[<b>World</b>]]></title>`

	events := Collect(Events([]byte(doc)))

	assert.Equal(t, []Event{
		{Kind: StartDocument},
		Start("title"),
		Text("Hello "),
		Text("<b>World</b>"),
		End("title"),
		{Kind: EndDocument},
	}, events)
}

func TestEventsSkipsComments(t *testing.T) {
	doc := `<!DOCTYPE rss><rss><!-- note --><item/></rss>`

	events := Collect(Events([]byte(doc)))

	assert.Equal(t, []Kind{StartDocument, StartElement, StartElement, EndElement, EndElement, EndDocument}, kinds(events))
}

func TestEventsTruncatedDocument(t *testing.T) {
	doc := `<rss><channel><item><title>Hello</title>`

	events := Collect(Events([]byte(doc)))
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.Equal(t, Error, last.Kind)
	assert.Error(t, last.Err)
	for _, ev := range events[:len(events)-1] {
		assert.NotEqual(t, Error, ev.Kind)
		assert.NotEqual(t, EndDocument, ev.Kind)
	}
}

func TestEventsMismatchedTag(t *testing.T) {
	doc := `<rss><item><title>Hello</link></item></rss>`

	events := Collect(Events([]byte(doc)))

	last := events[len(events)-1]
	assert.Equal(t, Error, last.Kind)
}

func TestEventsContentAfterRoot(t *testing.T) {
	for _, doc := range []string{
		`<rss><item><title>A</title></item></rss>junk`,
		`<rss><item><title>A</title></item></rss><rss><item><title>B</title></item></rss>`,
		`<rss></rss><extra/>`,
	} {
		events := Collect(Events([]byte(doc)))

		last := events[len(events)-1]
		assert.Equal(t, Error, last.Kind, "input %q", doc)
		assert.ErrorIs(t, last.Err, ErrContentAfterRoot, "input %q", doc)
		for _, ev := range events {
			assert.NotEqual(t, EndDocument, ev.Kind, "input %q", doc)
		}
	}
}

func TestEventsTrailingWhitespaceAndComments(t *testing.T) {
	doc := "<rss><item/></rss>\n  <!-- generated -->\n"

	events := Collect(Events([]byte(doc)))

	assert.Equal(t, EndDocument, events[len(events)-1].Kind)
}

func TestEventsEmptyInput(t *testing.T) {
	for _, doc := range []string{"", "   \n", `<?xml version="1.0"?>`} {
		events := Collect(Events([]byte(doc)))
		require.NotEmpty(t, events, "input %q", doc)

		assert.Equal(t, StartDocument, events[0].Kind)
		last := events[len(events)-1]
		assert.Equal(t, Error, last.Kind, "input %q", doc)
		assert.True(t, errors.Is(last.Err, ErrNoRootElement), "input %q", doc)
		for _, ev := range events {
			assert.NotEqual(t, StartElement, ev.Kind)
		}
	}
}

func TestEventsRestartable(t *testing.T) {
	seq := Events([]byte(`<rss><item><title>A</title></item></rss>`))

	first := Collect(seq)
	second := Collect(seq)

	assert.Equal(t, first, second)
}

func TestEventsEarlyStop(t *testing.T) {
	seq := Events([]byte(`<rss><item><title>A</title></item></rss>`))

	var seen []Event
	for ev := range seq {
		seen = append(seen, ev)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []Event{{Kind: StartDocument}, Start("rss")}, seen)
}

func TestSlice(t *testing.T) {
	events := []Event{Start("a"), Text("x"), End("a")}

	assert.Equal(t, events, Collect(Slice(events...)))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "StartElement(item)", Start("item").String())
	assert.Equal(t, `CharData("hi")`, Text("hi").String())
	assert.Equal(t, "EndDocument", Event{Kind: EndDocument}.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
