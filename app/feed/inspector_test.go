package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_RSS(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Neuse News</title>
    <link>https://www.neusenews.com</link>
    <description>Local news for Lenoir County</description>
    <language>en-US</language>
    <image><url>https://www.neusenews.com/logo.png</url><title>Neuse News</title><link>https://www.neusenews.com</link></image>
    <item><title>A</title></item>
  </channel>
</rss>`)

	metadata, err := NewInspector().Run(data)
	require.NoError(t, err)

	assert.Equal(t, "rss", metadata.FeedType)
	assert.Equal(t, "Neuse News", metadata.Title)
	assert.Equal(t, "https://www.neusenews.com", metadata.Link)
	assert.Equal(t, "Local news for Lenoir County", metadata.Description)
	assert.Equal(t, "en-US", metadata.Language)
	assert.Equal(t, "https://www.neusenews.com/logo.png", metadata.ImageURL)
}

func TestInspector_Atom(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <id>urn:example</id>
  <updated>2024-01-01T00:00:00Z</updated>
</feed>`)

	metadata, err := NewInspector().Run(data)
	require.NoError(t, err)
	assert.Equal(t, "atom", metadata.FeedType)
	assert.Equal(t, "Atom Feed", metadata.Title)
}

func TestInspector_Unknown(t *testing.T) {
	metadata, err := NewInspector().Run([]byte(`<html><body>Not a feed</body></html>`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFeedType))
	require.NotNil(t, metadata)
	assert.Equal(t, "unknown", metadata.FeedType)
}
