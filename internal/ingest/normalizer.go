package ingest

import "statwizard/domain/tabular"

// Normalize rewrites a heterogeneous row set so every row carries the union
// of all keys, with absent values materialized as empty strings. Key order
// follows first appearance across the input. The operation is pure and
// idempotent; normalizing an already-rectangular set is a no-op.
func Normalize(rows []tabular.Row) []tabular.Row {
	if len(rows) == 0 {
		return []tabular.Row{}
	}

	var keys []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	normalized := make([]tabular.Row, len(rows))
	for i, row := range rows {
		out := make(tabular.Row, len(keys))
		for _, key := range keys {
			if value, ok := row[key]; ok {
				out[key] = value
			} else {
				out[key] = ""
			}
		}
		normalized[i] = out
	}
	return normalized
}
