package feed

// Entry is one article extracted from a feed document.
type Entry struct {
	Title    string
	Link     string
	Excerpt  string
	ImageURL *string // nil when the item carried no image metadata
}

func (e Entry) Image() string {
	if e.ImageURL == nil {
		return ""
	}
	return *e.ImageURL
}

// Item is an entry as it flows through processing: its position in the
// source document plus the filter decision.
type Item struct {
	Entry
	Position     int
	IsFiltered   bool
	FilterReason string
}

type Metadata struct {
	FeedType    string // rss, atom, json or unknown
	Title       string
	Link        string
	Description string
	Language    string
	ImageURL    string
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Title    string         `yaml:"title"`
	URL      string         `yaml:"url"`
	Position int            `yaml:"position"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

// DisplayTitle is the section title, falling back to the config name.
func (c *Config) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"` // seconds
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
