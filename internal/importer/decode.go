package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/phrazzld/taskhub/internal/domain"
)

// Content types understood by Decode.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

// batchSchema describes the structure of a JSON import: an array of objects
// whose title and description, when present, are strings. Whether a title is
// empty is decided per row by the reconciler, not here.
const batchSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"title": {"type": "string"},
			"description": {"type": "string"}
		}
	}
}`

var batchValidator = jsonschema.MustCompileString("taskhub://import-batch.schema.json", batchSchema)

// SchemaError reports where a JSON import violated the batch structure.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("import payload invalid at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("import payload invalid: %s", e.Message)
}

// Unwrap lets callers match the error against domain.ErrBadRequest.
func (e *SchemaError) Unwrap() error {
	return domain.ErrBadRequest
}

// Decode selects a decoder from the request content type. An empty content
// type is treated as JSON.
func Decode(contentType string, r io.Reader) ([]Row, error) {
	mediaType := ""
	if strings.TrimSpace(contentType) != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid content type %q", domain.ErrBadRequest, contentType)
		}
		mediaType = parsed
	}

	switch {
	case mediaType == "" || strings.Contains(mediaType, "json"):
		return DecodeJSON(r)
	case strings.Contains(mediaType, "csv"):
		return DecodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrBadRequest, mediaType)
	}
}

// DecodeJSON reads a JSON array of {title, description} objects.
func DecodeJSON(r io.Reader) ([]Row, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: json parse error: %v", domain.ErrBadRequest, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: json parse error: unexpected data after array", domain.ErrBadRequest)
	}

	if err := batchValidator.Validate(doc); err != nil {
		return nil, mapSchemaError(err)
	}

	var items []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: json parse error: %v", domain.ErrBadRequest, err)
	}

	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{Index: i, Title: it.Title, Description: it.Description}
	}
	return rows, nil
}

// DecodeCSV reads a CSV table whose header names a title column and,
// optionally, a description column. Other columns are ignored. A record that
// cannot be parsed becomes a Row carrying Err.
func DecodeCSV(r io.Reader) ([]Row, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv input has no header row", domain.ErrBadRequest)
		}
		return nil, fmt.Errorf("%w: csv parse error: %v", domain.ErrBadRequest, err)
	}

	titleCol, descCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "title":
			if titleCol < 0 {
				titleCol = i
			}
		case "description":
			if descCol < 0 {
				descCol = i
			}
		}
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("%w: csv header must contain a title column", domain.ErrBadRequest)
	}

	var rows []Row
	for index := 0; ; index++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row := Row{Index: index}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: csv read error: %v", domain.ErrBadRequest, err)
			}
			row.Err = fmt.Errorf("csv parse error: %w", err)
			rows = append(rows, row)
			continue
		}
		if titleCol >= len(record) {
			row.Err = fmt.Errorf("csv parse error: record has %d fields, missing title", len(record))
			rows = append(rows, row)
			continue
		}
		row.Title = record[titleCol]
		if descCol >= 0 && descCol < len(record) {
			row.Description = record[descCol]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readAll reads the whole input and rejects invalid UTF-8. Read errors keep
// their cause so callers can detect *http.MaxBytesError.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading import payload: %w", domain.ErrBadRequest, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid utf8 in body", domain.ErrBadRequest)
	}
	return data, nil
}

// mapSchemaError converts a jsonschema validation failure into a SchemaError
// pointing at the first leaf cause.
func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Message: err.Error()}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &SchemaError{Path: leaf.InstanceLocation, Message: leaf.Message}
}
