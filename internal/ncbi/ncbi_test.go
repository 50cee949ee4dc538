package ncbi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

const efetchBody = `<?xml version="1.0" ?>
<PubmedArticleSet>
 <PubmedArticle>
  <MedlineCitation>
   <PMID>55555</PMID>
   <Article>
    <ArticleTitle>Structure of a <i>Bacteroides</i> glycoside hydrolase.</ArticleTitle>
    <Abstract>
     <AbstractText Label="BACKGROUND">Polysaccharides &amp; enzymes.</AbstractText>
     <AbstractText Label="RESULTS">We solved the structure.</AbstractText>
    </Abstract>
   </Article>
  </MedlineCitation>
 </PubmedArticle>
</PubmedArticleSet>`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{
		EutilsURL: srv.URL + "/eutils/",
		IDConvURL: srv.URL + "/idconv/",
		Tool:      "cazy-test",
		Email:     "dev@example.org",
		HTTP:      srv.Client(),
	})
}

func TestParsePubmed(t *testing.T) {
	article, err := ParsePubmed([]byte(efetchBody))
	require.NoError(t, err)

	assert.Equal(t, "Structure of a Bacteroides glycoside hydrolase.", article.Title)
	assert.Equal(t, "Polysaccharides & enzymes. We solved the structure.", article.Text)
	assert.True(t, article.OnlyAbstract)
}

func TestParsePubmedEmpty(t *testing.T) {
	_, err := ParsePubmed([]byte(`<PubmedArticleSet></PubmedArticleSet>`))
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
}

func TestFetchAbstract(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eutils/efetch.fcgi", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pubmed", q.Get("db"))
		assert.Equal(t, "55555", q.Get("id"))
		assert.Equal(t, "xml", q.Get("retmode"))
		assert.Equal(t, "cazy-test", q.Get("tool"))
		assert.Equal(t, "dev@example.org", q.Get("email"))
		assert.False(t, q.Has("api_key"))
		w.Write([]byte(efetchBody))
	})

	article, err := c.FetchAbstract(context.Background(), "55555")
	require.NoError(t, err)
	assert.Equal(t, "55555", article.ID)
	assert.Contains(t, article.Text, "solved")
}

func TestFetchAbstractHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchAbstract(context.Background(), "1")
	assert.Error(t, err)
}

func TestIDConvTranslator(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/idconv/", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		switch r.URL.Query().Get("ids") {
		case "55555":
			w.Write([]byte(`{"status":"ok","records":[{"pmcid":"PMC100","pmid":"55555","doi":"10.1/abc"}]}`))
		case "10.1/xyz":
			w.Write([]byte(`{"status":"ok","records":[{"doi":"10.1/xyz","status":"error","errmsg":"invalid article id"}]}`))
		default:
			w.Write([]byte(`{"status":"error","message":"bad request"}`))
		}
	})
	ctx := context.Background()

	var tr ids.Translator = c
	pmc, err := tr.PMCID(ctx, "55555")
	require.NoError(t, err)
	assert.Equal(t, "PMC100", pmc)

	doi, err := tr.DOI(ctx, "55555")
	require.NoError(t, err)
	assert.Equal(t, "10.1/abc", doi)

	pmc, err = tr.PMCID(ctx, "10.1/xyz")
	require.NoError(t, err)
	assert.Empty(t, pmc)

	_, err = tr.PMID(ctx, "???")
	assert.Error(t, err)
}

func TestIDConvThroughResolver(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","records":[{"pmid":"55555","pmcid":"PMC100"}]}`))
	})

	res := ids.NewResolver(c).ResolveAlternate(context.Background(), "55555", ids.PMCID)
	assert.Equal(t, ids.Hit("PMC100"), res)
}
