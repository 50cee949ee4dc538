package retrieval

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

var textTableHeader = []string{"id", "title", "only_abstract", "text"}

// WriteTextTable writes articles as CSV with an id,title,only_abstract,text
// header. Booleans are spelled True and False.
func WriteTextTable(w io.Writer, articles []ingest.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(textTableHeader); err != nil {
		return err
	}
	for _, a := range articles {
		only := "False"
		if a.OnlyAbstract {
			only = "True"
		}
		if err := cw.Write([]string{a.ID, a.Title, only, a.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTextTable reads a table written by WriteTextTable.
func ReadTextTable(r io.Reader) ([]ingest.Article, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(textTableHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("text table header: %w", err)
	}
	for i, name := range textTableHeader {
		if header[i] != name {
			return nil, fmt.Errorf("text table column %d is %q, want %q: %w", i, header[i], name, internalerr.ErrInvalidInput)
		}
	}

	var articles []ingest.Article
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		only, err := strconv.ParseBool(rec[2])
		if err != nil {
			return nil, fmt.Errorf("only_abstract %q: %w", rec[2], internalerr.ErrInvalidInput)
		}
		articles = append(articles, ingest.Article{ID: rec[0], Title: rec[1], OnlyAbstract: only, Text: rec[3]})
	}
	return articles, nil
}

// SaveTextTable writes the table to path.
func SaveTextTable(path string, articles []ingest.Article) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTextTable(f, articles); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadTextTable reads the table at path.
func LoadTextTable(path string) ([]ingest.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTextTable(f)
}
