package codec

import (
	"fmt"
	"strings"
)

// PlanCounts returns the raw count a producer should record at each
// consecutive hour so that the hours decode back to message.
//
// Letters are upper-cased first. Each message character occupies ChunkSize
// hours; digit d is produced by a count of d+1. A space in message becomes
// ChunkSize zero counts, which reconstruct as a gap.
func (c *Codec) PlanCounts(message string) ([]int64, error) {
	message = strings.ToUpper(message)
	counts := make([]int64, 0, len(message)*c.chunkSize)

	for i := 0; i < len(message); i++ {
		ch := message[i]
		if ch == Sentinel {
			for j := 0; j < c.chunkSize; j++ {
				counts = append(counts, 0)
			}
			continue
		}
		chunk, err := c.EncodeChar(ch)
		if err != nil {
			return nil, fmt.Errorf("plan %q at offset %d: %w", message, i, err)
		}
		for j := 0; j < len(chunk); j++ {
			// EncodeChar only emits alphabet symbols.
			d, _ := c.DigitIndex(chunk[j])
			counts = append(counts, int64(d)+1)
		}
	}
	return counts, nil
}
