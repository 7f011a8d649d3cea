// Package targetapi pushes assembled standards into the target system.
package targetapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/stdforge/stdforge/internal/apikey"
	"github.com/stdforge/stdforge/internal/assemble"
)

// Client talks to the target import API.
type Client struct {
	httpc *resty.Client
}

// New builds a client from a decoded target key.
func New(key apikey.TargetKey) *Client {
	httpc := resty.New()
	httpc.SetBaseURL(key.BaseURL())
	httpc.SetHeader("Authorization", fmt.Sprintf("Bearer %s", key.Token))
	return &Client{httpc: httpc}
}

// ImportStandard imports one standard. Callers upload standards one at a
// time, sequentially, so partial success stays observable and one
// rejected standard does not block the rest.
func (c *Client) ImportStandard(ctx context.Context, standard assemble.Standard) error {
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(standard).
		Post("/api/standards")
	if err != nil {
		return fmt.Errorf("targetapi: import standard %q: %w", standard.Name, err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("targetapi: %d on importing standard %q", resp.StatusCode(), standard.Name)
	}
	return nil
}
