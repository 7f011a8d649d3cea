package cluster

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedResponse marks a classifier response that does not decode
// into the expected groups shape. Hard for the initial classification,
// soft for repair rounds.
var ErrMalformedResponse = errors.New("cluster: malformed classifier response")

//go:embed response_schema.json
var responseSchemaJSON string

// parseMapping decodes a classifier response into a Mapping. The first
// fenced block tagged json is used when present; otherwise the whole
// response is treated as JSON.
func parseMapping(response string) (Mapping, error) {
	payload := extractFencedJSON(response)

	var m Mapping
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return Mapping{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validateShape(payload); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

func validateShape(payload string) error {
	schemaLoader := gojsonschema.NewStringLoader(responseSchemaJSON)
	documentLoader := gojsonschema.NewStringLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		msgs = append(msgs, schemaErr.String())
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(msgs, "; "))
}

// extractFencedJSON returns the body of the first ```json fenced block, or
// the input unchanged when no such block exists.
func extractFencedJSON(response string) string {
	const fence = "```"
	rest := response
	for {
		start := strings.Index(rest, fence)
		if start < 0 {
			return response
		}
		rest = rest[start+len(fence):]
		newline := strings.IndexByte(rest, '\n')
		if newline < 0 {
			return response
		}
		tag := strings.TrimSpace(rest[:newline])
		body := rest[newline+1:]
		end := strings.Index(body, fence)
		if end < 0 {
			return response
		}
		if strings.EqualFold(tag, "json") {
			return strings.TrimSpace(body[:end])
		}
		rest = body[end+len(fence):]
	}
}
