package search

// levenshtein computes the edit distance between two strings at rune level.
// Single-row dynamic programming, O(len(a)*len(b)) time, O(len(b)) space.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current := row[j]
			row[j] = minOf(
				row[j]+1,    // deletion
				row[j-1]+1,  // insertion
				prev+cost,   // substitution
			)
			prev = current
		}
	}

	return row[len(rb)]
}

func minOf(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
