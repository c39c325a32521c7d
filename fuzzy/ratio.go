package fuzzy

// Ratio returns the normalized Indel similarity of a and b in [0, 100].
// Two empty strings are identical and score 100.
func Ratio(a, b string) float64 {
	return runeRatio([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter of a and b and any
// substring of the longer one, in [0, 100]. Windows clipped at either end of
// the longer string are considered too. An empty input scores 0.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	best := partialRatio(ra, rb)
	if len(ra) == len(rb) && best < 100 {
		if swapped := partialRatio(rb, ra); swapped > best {
			best = swapped
		}
	}
	return best
}

// partialRatio slides needle across haystack. len(needle) <= len(haystack).
func partialRatio(needle, haystack []rune) float64 {
	n, m := len(needle), len(haystack)
	best := 0.0

	consider := func(window []rune) bool {
		if r := runeRatio(needle, window); r > best {
			best = r
		}
		return best == 100
	}

	// Windows growing in from the left edge.
	for i := 1; i < n; i++ {
		if consider(haystack[:i]) {
			return best
		}
	}
	// Full-width windows.
	for i := 0; i+n <= m; i++ {
		if consider(haystack[i : i+n]) {
			return best
		}
	}
	// Windows shrinking toward the right edge.
	for i := m - n + 1; i < m; i++ {
		if consider(haystack[i:]) {
			return best
		}
	}
	return best
}

func runeRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(a, b)) / float64(total)
}

// lcsLength computes the longest common subsequence with a single DP row.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}

	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		diag := 0
		for j := 1; j <= len(b); j++ {
			up := row[j]
			if a[i-1] == b[j-1] {
				row[j] = diag + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			diag = up
		}
	}
	return row[len(b)]
}
