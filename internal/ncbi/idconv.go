package ncbi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
)

type idconvResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Records []idconvRecord `json:"records"`
}

type idconvRecord struct {
	PMCID  string `json:"pmcid"`
	PMID   string `json:"pmid"`
	DOI    string `json:"doi"`
	Status string `json:"status"`
	ErrMsg string `json:"errmsg"`
}

var _ ids.Translator = (*Client)(nil)

// PMID translates id into a PubMed ID. "" means no counterpart.
func (c *Client) PMID(ctx context.Context, id string) (string, error) {
	rec, err := c.convert(ctx, id)
	return rec.PMID, err
}

// PMCID translates id into a PubMed Central ID. "" means no counterpart.
func (c *Client) PMCID(ctx context.Context, id string) (string, error) {
	rec, err := c.convert(ctx, id)
	return rec.PMCID, err
}

// DOI translates id into a DOI. "" means no counterpart.
func (c *Client) DOI(ctx context.Context, id string) (string, error) {
	rec, err := c.convert(ctx, id)
	return rec.DOI, err
}

// convert looks up every known identifier of one article. A record the
// service flags as an error is a miss, not a failure.
func (c *Client) convert(ctx context.Context, id string) (idconvRecord, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("format", "json")

	body, err := c.get(ctx, c.idconvURL, q)
	if err != nil {
		return idconvRecord{}, fmt.Errorf("idconv %s: %w", id, err)
	}

	var resp idconvResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return idconvRecord{}, fmt.Errorf("idconv %s: %w", id, err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return idconvRecord{}, fmt.Errorf("idconv %s: %s", id, resp.Message)
	}
	if len(resp.Records) == 0 {
		return idconvRecord{}, nil
	}

	rec := resp.Records[0]
	if rec.Status == "error" || rec.ErrMsg != "" {
		return idconvRecord{}, nil
	}
	return rec, nil
}
