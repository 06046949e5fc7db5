package signal

// Dedupe collapses rows to the first occurrence of each key, preserving
// input order, and stops once keepN rows have been kept. Rows narrower
// than keyIndex+1 are dropped.
func Dedupe(rows [][]string, keyIndex int, keepN int) [][]string {
	seen := make(map[string]bool, len(rows))
	out := make([][]string, 0, min(keepN, len(rows)))

	for _, row := range rows {
		if len(out) >= keepN {
			break
		}
		if keyIndex >= len(row) {
			continue
		}
		key := row[keyIndex]
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}

	return out
}
