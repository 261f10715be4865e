package lanat

// levenshtein computes the edit distance between two strings.
func levenshtein(str string, tgt string) int {
	if len(str) == 0 {
		return len(tgt)
	}
	if len(tgt) == 0 {
		return len(str)
	}

	dists := make([][]int, len(str)+1)
	for i := range dists {
		dists[i] = make([]int, len(tgt)+1)
		dists[i][0] = i
	}
	for j := range dists[0] {
		dists[0][j] = j
	}

	for sidx, sc := range []byte(str) {
		for tidx, tc := range []byte(tgt) {
			if sc == tc {
				dists[sidx+1][tidx+1] = dists[sidx][tidx]
			} else {
				dists[sidx+1][tidx+1] = dists[sidx][tidx] + 1
				if dists[sidx+1][tidx] < dists[sidx+1][tidx+1] {
					dists[sidx+1][tidx+1] = dists[sidx+1][tidx] + 1
				}
				if dists[sidx][tidx+1] < dists[sidx+1][tidx+1] {
					dists[sidx+1][tidx+1] = dists[sidx][tidx+1] + 1
				}
			}
		}
	}

	return dists[len(str)][len(tgt)]
}

// closestName returns the choice nearest to word and its distance. An empty
// name means there was nothing to compare against.
func closestName(word string, choices []string) (string, int) {
	if len(choices) == 0 {
		return "", 0
	}

	best := -1
	bestDist := -1
	for i, c := range choices {
		d := levenshtein(word, c)
		if best < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return choices[best], bestDist
}
