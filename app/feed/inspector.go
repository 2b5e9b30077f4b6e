package feed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
)

var ErrUnknownFeedType = errors.New("unknown feed type")

// Inspector reads channel level metadata. Entries always come from the
// Parser; the inspector only labels the document and describes the channel.
type Inspector struct {
	gofeedParser *gofeed.Parser
}

func NewInspector() *Inspector {
	return &Inspector{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run returns the detected feed type even when reading metadata fails.
func (i *Inspector) Run(data []byte) (*Metadata, error) {
	metadata := &Metadata{
		FeedType: feedTypeName(gofeed.DetectFeedType(bytes.NewReader(data))),
	}

	if metadata.FeedType == "unknown" {
		return metadata, ErrUnknownFeedType
	}

	feed, err := i.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return metadata, fmt.Errorf("failed to read feed metadata: %w", err)
	}

	metadata.Title = feed.Title
	metadata.Link = feed.Link
	metadata.Description = feed.Description
	metadata.Language = feed.Language

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	return metadata, nil
}

func feedTypeName(feedType gofeed.FeedType) string {
	switch feedType {
	case gofeed.FeedTypeRSS:
		return "rss"
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	default:
		return "unknown"
	}
}
