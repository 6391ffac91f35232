package ingest

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// NDJSONReader streams column.Batch values out of a newline-delimited
// JSON source. The schema is inferred from the union of keys seen in
// the first batch's worth of records: a key whose values mix integers
// and floats becomes float64, any other mix becomes string. Keys first
// seen in a later batch are ignored; a field missing from a record is
// treated as null, and in a non-string column a value of another JSON
// type is stored as null.
type NDJSONReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	schema  column.Schema
	started bool
	done    bool
}

func NewNDJSONReader(r io.Reader) *NDJSONReader {
	closer, _ := r.(io.Closer)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &NDJSONReader{scanner: scanner, closer: closer}
}

func (r *NDJSONReader) Schema() column.Schema { return r.schema }

func (r *NDJSONReader) Next() (*column.Batch, error) {
	if r.done {
		return nil, io.EOF
	}
	n := column.BatchSize()
	records := make([]map[string]interface{}, 0, n)
	for len(records) < n && r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, vnerrors.NewExecutorError("invalid NDJSON record: %v", err)
		}
		records = append(records, rec)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, vnerrors.NewExecutorError("error reading NDJSON stream: %v", err)
	}
	if len(records) < n {
		r.done = true
	}
	if len(records) == 0 {
		return nil, io.EOF
	}
	if !r.started {
		r.schema = inferNDJSONSchema(records)
		r.started = true
	}
	batch := buildNDJSONBatch(r.schema, records)
	return &batch, nil
}

func inferNDJSONSchema(records []map[string]interface{}) column.Schema {
	order := []string{}
	seen := map[string]bool{}
	types := map[string]column.DataType{}
	for _, rec := range records {
		for k, v := range rec {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
				types[k] = column.Invalid
			}
			t := jsonValueType(v)
			types[k] = widenType(types[k], t)
		}
	}
	fields := make([]column.Field, len(order))
	for i, name := range order {
		typ := types[name]
		if typ == column.Invalid {
			typ = column.String
		}
		fields[i] = column.Field{Name: name, Type: typ}
	}
	return column.NewSchema(fields...)
}

func jsonValueType(v interface{}) column.DataType {
	switch val := v.(type) {
	case nil:
		return column.Invalid
	case bool:
		return column.Bool
	case float64:
		if val == float64(int64(val)) {
			return column.Int64
		}
		return column.Float64
	case string:
		return column.String
	default:
		return column.String
	}
}

func widenType(a, b column.DataType) column.DataType {
	if a == column.Invalid {
		return b
	}
	if b == column.Invalid || a == b {
		return a
	}
	if (a == column.Int64 && b == column.Float64) || (a == column.Float64 && b == column.Int64) {
		return column.Float64
	}
	return column.String
}

func buildNDJSONBatch(schema column.Schema, records []map[string]interface{}) column.Batch {
	n := len(records)
	cols := make([]column.Column, len(schema.Fields))
	for c, f := range schema.Fields {
		valid := make([]bool, n)
		switch f.Type {
		case column.Int64:
			vals := make([]int64, n)
			for r, rec := range records {
				if v, ok := rec[f.Name]; ok {
					if fv, ok := v.(float64); ok {
						vals[r] = int64(fv)
						valid[r] = true
					}
				}
			}
			cols[c] = column.NewInt64Column(vals, valid)
		case column.Float64:
			vals := make([]float64, n)
			for r, rec := range records {
				if v, ok := rec[f.Name]; ok {
					switch fv := v.(type) {
					case float64:
						vals[r] = fv
						valid[r] = true
					}
				}
			}
			cols[c] = column.NewFloat64Column(vals, valid)
		case column.Bool:
			vals := make([]bool, n)
			for r, rec := range records {
				if v, ok := rec[f.Name]; ok {
					if bv, ok := v.(bool); ok {
						vals[r] = bv
						valid[r] = true
					}
				}
			}
			cols[c] = column.NewBoolColumn(vals, valid)
		default:
			vals := make([]string, n)
			for r, rec := range records {
				if v, ok := rec[f.Name]; ok && v != nil {
					vals[r] = jsonToString(v)
					valid[r] = true
				}
			}
			cols[c] = column.NewStringColumn(vals, valid)
		}
	}
	return column.MustNewBatch(schema, cols)
}

func jsonToString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func (r *NDJSONReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
