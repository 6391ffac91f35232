package operator

import (
	"io"

	"github.com/dmitrykoval/govinum/column"
)

// Slice implements LIMIT/OFFSET by streaming across parent batches,
// skipping offset rows and then emitting at most limit rows, trimming
// individual batches at either boundary as needed.
type Slice struct {
	parent      Operator
	offset      int64
	limit       int64
	hasLimit    bool
	skipped     int64
	returned    int64
	done        bool
}

func NewSlice(parent Operator, offset int64, limit int64, hasLimit bool) *Slice {
	return &Slice{parent: parent, offset: offset, limit: limit, hasLimit: hasLimit}
}

func (s *Slice) Schema() column.Schema { return s.parent.Schema() }

func (s *Slice) Next() (*column.Batch, error) {
	if s.done {
		return nil, io.EOF
	}
	if s.hasLimit && s.returned >= s.limit {
		s.done = true
		return nil, io.EOF
	}
	for {
		batch, err := s.parent.Next()
		if err != nil {
			return nil, err
		}
		n := int64(batch.NumRows())

		start := int64(0)
		if s.skipped < s.offset {
			remaining := s.offset - s.skipped
			if remaining >= n {
				s.skipped += n
				continue
			}
			start = remaining
			s.skipped = s.offset
		}

		available := n - start
		take := available
		if s.hasLimit {
			remainingLimit := s.limit - s.returned
			if take > remainingLimit {
				take = remainingLimit
			}
		}
		if take <= 0 {
			continue
		}
		out := batch.Slice(int(start), int(take))
		s.returned += take
		return &out, nil
	}
}

func (s *Slice) Close() error { return s.parent.Close() }
