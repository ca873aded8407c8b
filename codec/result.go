package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/vecseg/model"
)

// FormatEntry renders one neighbor as "<id>-><distance %.6f>".
func FormatEntry(id model.ID, dist float32) string {
	return fmt.Sprintf("%d->%.6f", id, float64(dist))
}

// ParseEntry parses a string produced by FormatEntry.
func ParseEntry(s string) (model.ID, float32, error) {
	idPart, distPart, ok := strings.Cut(s, "->")
	if !ok {
		return 0, 0, fmt.Errorf("codec: malformed entry %q", s)
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("codec: malformed id in %q: %w", s, err)
	}
	dist, err := strconv.ParseFloat(distPart, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("codec: malformed distance in %q: %w", s, err)
	}
	return model.ID(id), float32(dist), nil
}

// FormatResult renders every query list of r, preserving order.
func FormatResult(r model.SearchResult) [][]string {
	out := make([][]string, len(r))
	for q, list := range r {
		entries := make([]string, len(list))
		for i, n := range list {
			entries[i] = FormatEntry(n.ID, n.Distance)
		}
		out[q] = entries
	}
	return out
}

// FormatFlat renders flattened label and distance arrays holding topk
// entries per query. Negative ids mark padding and are skipped.
func FormatFlat(ids []int64, dists []float32, topk int) ([][]string, error) {
	if len(ids) != len(dists) {
		return nil, fmt.Errorf("codec: %d ids but %d distances", len(ids), len(dists))
	}
	if topk <= 0 {
		return nil, fmt.Errorf("codec: topk must be positive, got %d", topk)
	}
	if len(ids)%topk != 0 {
		return nil, fmt.Errorf("codec: %d entries is not a multiple of topk %d", len(ids), topk)
	}

	nq := len(ids) / topk
	out := make([][]string, nq)
	for q := 0; q < nq; q++ {
		entries := make([]string, 0, topk)
		for i := q * topk; i < (q+1)*topk; i++ {
			if ids[i] < 0 {
				continue
			}
			entries = append(entries, FormatEntry(model.ID(ids[i]), dists[i]))
		}
		out[q] = entries
	}
	return out, nil
}

// Flatten converts r into knowhere-style label and distance arrays of
// topk entries per query, padding short lists with id -1.
func Flatten(r model.SearchResult, topk int) ([]int64, []float32) {
	ids := make([]int64, len(r)*topk)
	dists := make([]float32, len(r)*topk)
	for q, list := range r {
		for i := 0; i < topk; i++ {
			j := q*topk + i
			if i < len(list) {
				ids[j] = int64(list[i].ID)
				dists[j] = list[i].Distance
			} else {
				ids[j] = -1
			}
		}
	}
	return ids, dists
}

// MarshalResults encodes results as a JSON array with one entry per result,
// each holding one array of formatted neighbors per query.
func MarshalResults(c Codec, results ...model.SearchResult) ([]byte, error) {
	if c == nil {
		c = Default
	}
	doc := make([][][]string, len(results))
	for i, r := range results {
		doc[i] = FormatResult(r)
	}
	return c.Marshal(doc)
}

// UnmarshalResults decodes a document produced by MarshalResults into its
// formatted entries.
func UnmarshalResults(c Codec, data []byte) ([][][]string, error) {
	if c == nil {
		c = Default
	}
	var doc [][][]string
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return doc, nil
}
