package normalize

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// SimilarityThreshold is the default cutoff (on a 0-100 scale) above which
// two free-text values are treated as the same misspelled value.
const SimilarityThreshold = 80

// SimilarityRatio scores two strings on a 0-100 scale using normalized edit
// distance.
func SimilarityRatio(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil) * 100
}

// RemoveSimilarValues collapses near-duplicate strings (names or addresses
// with spelling drift). A value is dropped when its similarity to an
// already-accepted value exceeds the threshold; the first-seen member of
// each cluster survives and input order is preserved. O(n²) comparisons.
func RemoveSimilarValues(values []string, threshold float64) []string {
	if len(values) <= 1 {
		return values
	}
	var unique []string
	for _, v := range values {
		duplicate := false
		for _, kept := range unique {
			if SimilarityRatio(v, kept) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, v)
		}
	}
	return unique
}

// RemoveSubsets drops any name that is a strict substring of a longer
// surviving name, so ["MIKE", "MIKE MALONE"] keeps only "MIKE MALONE".
// Names are considered longest-first and checked against all longer,
// already-accepted entries; the result is ordered longest-first.
func RemoveSubsets(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	var unique []string
	for _, name := range sorted {
		contained := false
		for _, longer := range unique {
			if strings.Contains(longer, name) {
				contained = true
				break
			}
		}
		if !contained {
			unique = append(unique, name)
		}
	}
	return unique
}
