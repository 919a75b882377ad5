package collector

// DefaultBatchSize is the number of resource identifiers sent per metrics
// query. It matches the Render API's per-call cardinality limit.
const DefaultBatchSize = 50

// Batch splits ids into ordered, contiguous chunks of at most size elements.
// The last chunk may be shorter. An empty input yields no chunks. size must
// be positive; non-positive sizes fall back to DefaultBatchSize.
func Batch(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(ids) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
