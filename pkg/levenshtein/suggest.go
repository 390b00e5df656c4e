// Package levenshtein suggests the closest known name for a mistyped one.
package levenshtein

// Distance returns the number of single-rune insertions, deletions and
// substitutions that turn a into b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// prev[j] is the distance between ra[:i] and rb[:j].
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	cur := make([]int, len(rb)+1)

	for i, ca := range ra {
		cur[0] = i + 1

		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}

			cur[j+1] = min(prev[j+1]+1, cur[j]+1, prev[j]+cost)
		}

		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

// Closest returns the candidate nearest to word, provided its distance is
// at most maxDistance. Ties go to the earlier candidate.
func Closest(word string, candidates []string, maxDistance int) (string, bool) {
	var best string

	bestDist := maxDistance + 1

	for _, c := range candidates {
		if d := Distance(word, c); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, bestDist <= maxDistance
}
