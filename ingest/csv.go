// Package ingest implements streaming record sources: CSVReader infers
// a schema from the first data row, NDJSONReader from the first batch of
// records, and each then yields column.BatchSize()-sized batches until the source is
// exhausted, satisfying operator.StreamReader.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// CSVReader streams column.Batch values out of a CSV source, inferring
// each column's type from its first data row: int64, then float64, then
// string. An empty field is treated as null regardless of inferred type.
type CSVReader struct {
	reader   *csv.Reader
	closer   io.Closer
	schema   column.Schema
	colTypes []column.DataType
	firstRow []string
	done     bool
}

// NewCSVReader builds a CSVReader over r, reading the header row and
// peeking the first data row immediately to infer types.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	closer, _ := r.(io.Closer)
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, vnerrors.NewExecutorError("failed to read CSV header: %v", err)
	}

	firstRow, err := reader.Read()
	if err != nil && err != io.EOF {
		return nil, vnerrors.NewExecutorError("failed to read first CSV row: %v", err)
	}

	colTypes := make([]column.DataType, len(header))
	if firstRow != nil {
		for i, val := range firstRow {
			colTypes[i] = inferCSVType(val)
		}
	} else {
		for i := range colTypes {
			colTypes[i] = column.String
		}
	}

	fields := make([]column.Field, len(header))
	for i, name := range header {
		fields[i] = column.Field{Name: name, Type: colTypes[i]}
	}

	return &CSVReader{
		reader:   reader,
		closer:   closer,
		schema:   column.NewSchema(fields...),
		colTypes: colTypes,
		firstRow: firstRow,
	}, nil
}

func inferCSVType(val string) column.DataType {
	if val == "" {
		return column.String
	}
	if _, err := strconv.ParseInt(val, 10, 64); err == nil {
		return column.Int64
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return column.Float64
	}
	return column.String
}

func (r *CSVReader) Schema() column.Schema { return r.schema }

func (r *CSVReader) Next() (*column.Batch, error) {
	if r.done {
		return nil, io.EOF
	}
	n := column.BatchSize()
	rows := make([][]string, 0, n)

	if r.firstRow != nil {
		rows = append(rows, r.firstRow)
		r.firstRow = nil
	}
	for len(rows) < n {
		rec, err := r.reader.Read()
		if err == io.EOF {
			r.done = true
			break
		}
		if err != nil {
			return nil, vnerrors.NewExecutorError("error reading CSV row: %v", err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	batch := buildCSVBatch(r.schema, r.colTypes, rows)
	return &batch, nil
}

func buildCSVBatch(schema column.Schema, colTypes []column.DataType, rows [][]string) column.Batch {
	ncols := len(colTypes)
	nrows := len(rows)
	cols := make([]column.Column, ncols)
	for c := 0; c < ncols; c++ {
		valid := make([]bool, nrows)
		switch colTypes[c] {
		case column.Int64:
			vals := make([]int64, nrows)
			for r, row := range rows {
				if c >= len(row) || row[c] == "" {
					continue
				}
				if v, err := strconv.ParseInt(row[c], 10, 64); err == nil {
					vals[r] = v
					valid[r] = true
				}
			}
			cols[c] = column.NewInt64Column(vals, valid)
		case column.Float64:
			vals := make([]float64, nrows)
			for r, row := range rows {
				if c >= len(row) || row[c] == "" {
					continue
				}
				if v, err := strconv.ParseFloat(row[c], 64); err == nil {
					vals[r] = v
					valid[r] = true
				}
			}
			cols[c] = column.NewFloat64Column(vals, valid)
		default:
			vals := make([]string, nrows)
			for r, row := range rows {
				if c >= len(row) || row[c] == "" {
					continue
				}
				vals[r] = row[c]
				valid[r] = true
			}
			cols[c] = column.NewStringColumn(vals, valid)
		}
	}
	return column.MustNewBatch(schema, cols)
}

func (r *CSVReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
