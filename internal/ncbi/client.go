// Package ncbi talks to the NCBI E-utilities and PMC ID converter.
package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client holds the endpoints and the identification NCBI asks callers to send
type Client struct {
	eutilsURL string
	idconvURL string
	tool      string
	email     string
	apiKey    string
	http      *http.Client
}

// Options configures a Client
type Options struct {
	EutilsURL string
	IDConvURL string
	Tool      string
	Email     string
	APIKey    string
	HTTP      *http.Client
}

// New creates a client. A nil HTTP client uses http.DefaultClient.
func New(opts Options) *Client {
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		eutilsURL: strings.TrimRight(opts.EutilsURL, "/"),
		idconvURL: opts.IDConvURL,
		tool:      opts.Tool,
		email:     opts.Email,
		apiKey:    opts.APIKey,
		http:      httpClient,
	}
}

func (c *Client) identify(q url.Values) {
	if c.tool != "" {
		q.Set("tool", c.tool)
	}
	if c.email != "" {
		q.Set("email", c.email)
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
}

// get issues a GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	c.identify(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", endpoint, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
