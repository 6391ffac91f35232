package operator

import (
	"io"

	"github.com/dmitrykoval/govinum/column"
)

// StreamReader is the contract an ingestion source (CSV, NDJSON, or any
// other streaming producer) must satisfy to be wired in as a query's
// Source operator.
type StreamReader interface {
	Next() (*column.Batch, error)
	Schema() column.Schema
	Close() error
}

// TableSource replays an in-memory column.Table one batch at a time.
type TableSource struct {
	schema  column.Schema
	batches []column.Batch
	pos     int
}

func NewTableSource(table column.Table) *TableSource {
	return &TableSource{schema: table.Schema, batches: table.Batches}
}

func (s *TableSource) Schema() column.Schema { return s.schema }

func (s *TableSource) Next() (*column.Batch, error) {
	if s.pos >= len(s.batches) {
		return nil, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return &b, nil
}

func (s *TableSource) Close() error { return nil }

// StreamSource adapts a StreamReader (ingest.CSVReader, ingest.NDJSONReader,
// ...) into a Source operator.
type StreamSource struct {
	reader StreamReader
}

func NewStreamSource(reader StreamReader) *StreamSource {
	return &StreamSource{reader: reader}
}

func (s *StreamSource) Schema() column.Schema { return s.reader.Schema() }
func (s *StreamSource) Next() (*column.Batch, error) { return s.reader.Next() }
func (s *StreamSource) Close() error { return s.reader.Close() }

// EmptySource is a degenerate source that yields column.EmptyBatch()
// exactly once. The planner does not use it.
type EmptySource struct {
	schema column.Schema
	done   bool
}

func NewEmptySource() *EmptySource {
	b := column.EmptyBatch()
	return &EmptySource{schema: b.Schema}
}

func (s *EmptySource) Schema() column.Schema { return s.schema }

func (s *EmptySource) Next() (*column.Batch, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	b := column.EmptyBatch()
	return &b, nil
}

func (s *EmptySource) Close() error { return nil }

// OneRowSource is the synthetic source the planner substitutes for a
// non-aggregate query that references no column at all (e.g.
// "SELECT 1"): it yields column.OneRowBatch() exactly once, so the
// projection has one row to broadcast against. Aggregate queries such
// as "SELECT COUNT(*)" stay on the real source instead.
type OneRowSource struct {
	schema column.Schema
	done   bool
}

func NewOneRowSource() *OneRowSource {
	b := column.OneRowBatch()
	return &OneRowSource{schema: b.Schema}
}

func (s *OneRowSource) Schema() column.Schema { return s.schema }

func (s *OneRowSource) Next() (*column.Batch, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	b := column.OneRowBatch()
	return &b, nil
}

func (s *OneRowSource) Close() error { return nil }
