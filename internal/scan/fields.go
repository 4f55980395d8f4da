package scan

import (
	"fmt"
	"strings"
)

type Field string

const (
	FieldContent     Field = "content"
	FieldAuthor      Field = "author"
	FieldAuthorEmail Field = "author_email"
	FieldAuthorURL   Field = "author_url"
	FieldAuthorIP    Field = "author_ip"
)

// FieldOrder is the fixed evaluation order. The first field that matches is
// the one reported.
var FieldOrder = []Field{FieldContent, FieldAuthor, FieldAuthorEmail, FieldAuthorURL, FieldAuthorIP}

// Fields holds the submitted values. Missing values are empty strings.
type Fields struct {
	Content     string `json:"content"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
	AuthorURL   string `json:"author_url"`
	AuthorIP    string `json:"author_ip"`
}

func (f Fields) Value(field Field) string {
	switch field {
	case FieldContent:
		return f.Content
	case FieldAuthor:
		return f.Author
	case FieldAuthorEmail:
		return f.AuthorEmail
	case FieldAuthorURL:
		return f.AuthorURL
	case FieldAuthorIP:
		return f.AuthorIP
	default:
		return ""
	}
}

// ParseFields validates a configured list of field names. An empty list
// selects every field. The result is always in FieldOrder.
func ParseFields(names []string) ([]Field, error) {
	if len(names) == 0 {
		return append([]Field(nil), FieldOrder...), nil
	}

	wanted := make(map[Field]bool, len(names))
	for _, name := range names {
		field := Field(strings.ToLower(strings.TrimSpace(name)))
		if !isKnown(field) {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		wanted[field] = true
	}

	out := make([]Field, 0, len(wanted))
	for _, field := range FieldOrder {
		if wanted[field] {
			out = append(out, field)
		}
	}
	return out, nil
}

func isKnown(field Field) bool {
	for _, f := range FieldOrder {
		if f == field {
			return true
		}
	}
	return false
}
