// Package biblio scrapes full-text PMC articles from a Biblio server.
package biblio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

const fromPMCIDPath = "/utils/fromPMCID/fromPMCID.php"

// Client fetches rendered articles from Biblio
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the Biblio installation at baseURL.
// A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// PageURL returns the print view of an article, addressed by the numeric
// part of its PMCID.
func (c *Client) PageURL(pmcid string) string {
	digits := strings.TrimSpace(strings.TrimPrefix(pmcid, ids.PMCPrefix))
	return c.baseURL + fromPMCIDPath + "?PMCID=" + url.QueryEscape(digits) + "&print&content&title"
}

// FetchFullText downloads and parses one article. A page without a title
// is reported as internalerr.ErrNotFound.
func (c *Client) FetchFullText(ctx context.Context, pmcid string) (ingest.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(pmcid), nil)
	if err != nil {
		return ingest.Article{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ingest.Article{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ingest.Article{}, fmt.Errorf("biblio %s: HTTP %d", pmcid, resp.StatusCode)
	}

	page, err := ParsePage(resp.Body)
	if err != nil {
		return ingest.Article{}, fmt.Errorf("biblio %s: %w", pmcid, err)
	}

	return ingest.Article{
		ID:           pmcid,
		Title:        page.Title,
		OnlyAbstract: page.OnlyAbstract(),
		Text:         page.Text,
	}, nil
}

// Page is the useful content of an article page
type Page struct {
	Title    string // text of the first h1
	Text     string // text of every p, in document order
	Sections int    // number of h2 headings
}

// OnlyAbstract reports whether the page carries at most one section,
// which Biblio renders for articles without full text.
func (p Page) OnlyAbstract() bool {
	return p.Sections <= 1
}

// ParsePage extracts title, paragraphs and section count.
func ParsePage(r io.Reader) (Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Page{}, err
	}

	var (
		page       Page
		foundTitle bool
		paragraphs []string
	)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H1:
				if !foundTitle {
					page.Title = textContent(n)
					foundTitle = true
				}
			case atom.H2:
				page.Sections++
			case atom.P:
				paragraphs = append(paragraphs, textContent(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !foundTitle {
		return Page{}, fmt.Errorf("no article title: %w", internalerr.ErrNotFound)
	}
	page.Text = strings.Join(paragraphs, " ")
	return page, nil
}

func textContent(n *html.Node) string {
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
	extract(n)
	return strings.TrimSpace(buf.String())
}
