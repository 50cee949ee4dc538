package ingest

import (
	"errors"
	"strings"
)

// Document is one article's text as it enters the preprocessing pipeline
type Document struct {
	ID    string
	Title string
	Text  string
}

// Validate checks if the document has required fields
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("document id is required")
	}
	return nil
}

// Body is the text fed to the cleaner: title and text separated by a space.
func (d Document) Body() string {
	return d.Title + " " + d.Text
}

// Article is a retrieval result, one row of the text table
type Article struct {
	ID           string
	Title        string
	OnlyAbstract bool
	Text         string
}

// Document converts the article for preprocessing.
func (a Article) Document() Document {
	return Document{ID: a.ID, Title: a.Title, Text: a.Text}
}
