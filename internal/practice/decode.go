package practice

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedRecord marks a fatal decode failure in a legacy export. One
// bad line aborts the whole batch; partial record sets are never returned.
var ErrMalformedRecord = errors.New("practice: malformed export record")

// maxRecordBytes bounds a single exported record line.
const maxRecordBytes = 16 << 20

// DecodeCollection reads one collection export as newline-delimited JSON.
// A malformed line or a record without a name fails the whole batch with a
// 1-based line-numbered diagnostic, deliberately distinguishing "nonsense
// record" (hard stop) from "record absent from an LLM grouping"
// (recoverable later in the pipeline).
func DecodeCollection(r io.Reader) ([]Practice, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxRecordBytes)

	var records []Practice
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var p Practice
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, lineNo, err)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: line %d: missing practice name", ErrMalformedRecord, lineNo)
		}
		records = append(records, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return records, nil
}
