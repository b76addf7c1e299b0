package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineBytes bounds a single JSONL line when reading. Original texts
// with long commentary run to a few hundred kilobytes.
const maxLineBytes = 16 * 1024 * 1024

// JSONLWriter appends records to an io.Writer as JSON Lines: one object
// per line, newline-terminated, no enclosing array.
type JSONLWriter struct {
	w     io.Writer
	count int
}

// NewJSONLWriter creates a writer that appends to w. Each record is
// written with a single Write call so a killed process leaves only whole
// lines behind.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: w}
}

// Write encodes rec and appends it as one line. HTML characters are left
// unescaped.
func (jw *JSONLWriter) Write(rec Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", rec.SourceDocumentID, err)
	}

	if _, err := jw.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.SourceDocumentID, err)
	}

	jw.count++
	return nil
}

// Count returns the number of records written so far.
func (jw *JSONLWriter) Count() int {
	return jw.count
}

// LineError describes a JSONL line that could not be decoded.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ListResult contains the records read from a JSONL stream, along with
// any per-line errors.
type ListResult struct {
	Records []Record
	Errors  []LineError
}

// ReadJSONL reads every record from r. Lines that fail to decode are
// collected in the result's Errors rather than failing the whole read;
// blank lines are skipped. A non-nil error means r itself failed.
func ReadJSONL(r io.Reader) (*ListResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	result := &ListResult{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Err: err})
			continue
		}

		result.Records = append(result.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return result, nil
}
