package models

// Article is the catalog view of one stored article.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Filename    string `json:"filename"`
}

// Field is a metadata key the store does not interpret.
type Field struct {
	Key   string
	Value string
}

// Metadata is the parsed metadata block of an article file.
// Extra keeps unrecognized keys in the order they appeared.
type Metadata struct {
	ID          string
	Title       string
	Date        string
	Description string
	Thumbnail   string
	Extra       []Field
}

// Get returns the value of an extra key.
func (m Metadata) Get(key string) (string, bool) {
	for _, f := range m.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every non-empty value of the block, known keys first.
func (m Metadata) Values() []string {
	out := make([]string, 0, 5+len(m.Extra))
	for _, v := range []string{m.ID, m.Title, m.Date, m.Description, m.Thumbnail} {
		if v != "" {
			out = append(out, v)
		}
	}
	for _, f := range m.Extra {
		if f.Value != "" {
			out = append(out, f.Value)
		}
	}
	return out
}
