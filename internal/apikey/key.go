// Package apikey decodes the self-describing key blobs handed to the
// pipeline for the legacy catalog and the target import APIs.
package apikey

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey marks a blob that cannot be decoded or is missing a
// required field. Unresolvable credentials are fatal input errors.
var ErrInvalidKey = errors.New("apikey: invalid key blob")

// SourceKey addresses the legacy source-catalog API. The security flag
// selects the URL scheme.
type SourceKey struct {
	Host     string `json:"host"`
	Insecure bool   `json:"insecure,omitempty"`
}

// BaseURL renders the catalog endpoint base.
func (k SourceKey) BaseURL() string {
	scheme := "https"
	if k.Insecure {
		scheme = "http"
	}
	return scheme + "://" + k.Host
}

// TargetKey addresses the target import API and carries its credential.
type TargetKey struct {
	Host  string `json:"host"`
	Token string `json:"token"`
}

// BaseURL renders the import endpoint base.
func (k TargetKey) BaseURL() string {
	return "https://" + k.Host
}

// DecodeSource decodes a source-catalog key blob.
func DecodeSource(blob string) (SourceKey, error) {
	var k SourceKey
	if err := decode(blob, &k); err != nil {
		return SourceKey{}, err
	}
	if strings.TrimSpace(k.Host) == "" {
		return SourceKey{}, fmt.Errorf("%w: missing host", ErrInvalidKey)
	}
	return k, nil
}

// DecodeTarget decodes a target-import key blob.
func DecodeTarget(blob string) (TargetKey, error) {
	var k TargetKey
	if err := decode(blob, &k); err != nil {
		return TargetKey{}, err
	}
	if strings.TrimSpace(k.Host) == "" {
		return TargetKey{}, fmt.Errorf("%w: missing host", ErrInvalidKey)
	}
	if strings.TrimSpace(k.Token) == "" {
		return TargetKey{}, fmt.Errorf("%w: missing token", ErrInvalidKey)
	}
	return k, nil
}

// decode base64-decodes the blob and unmarshals the JSON payload. Some
// issuers wrap the blob in one extra base64 layer, so a payload that is
// not JSON gets exactly one more decode attempt before failing.
func decode(blob string, out any) error {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if !json.Valid(raw) {
		inner, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return fmt.Errorf("%w: payload is neither JSON nor base64", ErrInvalidKey)
		}
		raw = inner
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return nil
}
