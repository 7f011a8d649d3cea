// Package legacyapi reads the legacy source catalog: the id-to-name table
// of practice collections used for provenance labelling.
package legacyapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/stdforge/stdforge/internal/apikey"
)

// Collection is one {id, name} catalog entry.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to the legacy catalog API.
type Client struct {
	httpc *resty.Client
}

// New builds a client from a decoded source key.
func New(key apikey.SourceKey) *Client {
	httpc := resty.New()
	httpc.SetBaseURL(key.BaseURL())
	return &Client{httpc: httpc}
}

// ListCollections fetches the full catalog. The result is used purely as
// a read-only lookup table; a failure here is fatal to the caller's step.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	var out []Collection
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/collections")
	if err != nil {
		return nil, fmt.Errorf("legacyapi: list collections: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("legacyapi: %d on listing collections", resp.StatusCode())
	}
	return out, nil
}

// NameIndex converts the catalog into an id-to-name lookup table. The
// table is loaded once per run and never mutated afterward.
func NameIndex(collections []Collection) map[string]string {
	idx := make(map[string]string, len(collections))
	for _, c := range collections {
		idx[c.ID] = c.Name
	}
	return idx
}
