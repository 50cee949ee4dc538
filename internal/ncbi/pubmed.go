package ncbi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Title    markup   `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract []markup `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

// markup keeps inline tags such as <i> so their text is not lost.
type markup struct {
	Inner string `xml:",innerxml"`
}

func (m markup) text() string {
	nodes, err := html.ParseFragment(strings.NewReader(m.Inner), nil)
	if err != nil {
		return strings.TrimSpace(m.Inner)
	}
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for _, n := range nodes {
		extract(n)
	}
	return strings.TrimSpace(buf.String())
}

// FetchAbstract returns the PubMed title and abstract of an article. The
// id may be a PMID or a DOI; an empty result set is internalerr.ErrNotFound.
func (c *Client) FetchAbstract(ctx context.Context, id string) (ingest.Article, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", id)
	q.Set("retmode", "xml")

	body, err := c.get(ctx, c.eutilsURL+"/efetch.fcgi", q)
	if err != nil {
		return ingest.Article{}, fmt.Errorf("pubmed %s: %w", id, err)
	}

	article, err := ParsePubmed(body)
	if err != nil {
		return ingest.Article{}, fmt.Errorf("pubmed %s: %w", id, err)
	}
	article.ID = id
	return article, nil
}

// ParsePubmed reads the first article of an efetch XML response.
func ParsePubmed(body []byte) (ingest.Article, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return ingest.Article{}, err
	}
	if len(set.Articles) == 0 {
		return ingest.Article{}, internalerr.ErrNotFound
	}

	a := set.Articles[0]
	sections := make([]string, 0, len(a.Abstract))
	for _, s := range a.Abstract {
		if t := s.text(); t != "" {
			sections = append(sections, t)
		}
	}

	return ingest.Article{
		Title:        a.Title.text(),
		OnlyAbstract: true,
		Text:         strings.Join(sections, " "),
	}, nil
}
