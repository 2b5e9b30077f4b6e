package feed

import "fmt"

// SharePayload builds the text shared for an article: "<title> - <link>".
func SharePayload(title, link string) string {
	switch {
	case title == "":
		return link
	case link == "":
		return title
	default:
		return fmt.Sprintf("%s - %s", title, link)
	}
}

func (e Entry) SharePayload() string {
	return SharePayload(e.Title, e.Link)
}
