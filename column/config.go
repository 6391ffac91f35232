package column

import "sync/atomic"

// DefaultBatchSize is the out-of-the-box number of rows a Source
// operator yields per batch.
const DefaultBatchSize = 10000

var batchSize int64 = DefaultBatchSize

// SetBatchSize sets the process-global batch size knob. Safe to call
// concurrently with query execution, though the effect on an
// already-running query is undefined, matching the "last-write-wins"
// contract the rest of the function registry follows.
func SetBatchSize(n int) {
	if n <= 0 {
		return
	}
	atomic.StoreInt64(&batchSize, int64(n))
}

// BatchSize returns the current process-global batch size.
func BatchSize() int {
	return int(atomic.LoadInt64(&batchSize))
}
