package bridge

import "sort"

// FillMissingFields computes the union of keys across a list of
// heterogeneous insert-row dicts and fills any key absent from a given
// row with nil, so downstream engine-side positional binding can treat
// every row as having the same column set, in the same order.
//
// The returned key order is stable: keys appear in the order of the
// first row that contains them, and keys first seen in the same row are
// sorted by name, so a caller building prepared-statement columns from
// it matches what a human reading the insert batch top-to-bottom would
// expect.
func FillMissingFields(rows []map[string]any) (keys []string, filled []map[string]any) {
	seen := make(map[string]bool)
	for _, row := range rows {
		fresh := make([]string, 0, len(row))
		for k := range row {
			if !seen[k] {
				seen[k] = true
				fresh = append(fresh, k)
			}
		}
		sort.Strings(fresh)
		keys = append(keys, fresh...)
	}

	filled = make([]map[string]any, len(rows))
	for i, row := range rows {
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			v, ok := row[k]
			if !ok {
				out[k] = nil
				continue
			}
			out[k] = v
		}
		filled[i] = out
	}
	return keys, filled
}
