package nomenclature

import (
	"sort"
	"strconv"
)

// CompareLocantSets compares two locant arrays lexicographically: A < B iff
// at the first index where they differ A's element is smaller; when one is a
// strict prefix of the other, the shorter wins.
func CompareLocantSets(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// CompareCitationLists compares two substituent-name citation arrays with
// the same lexicographic contract as CompareLocantSets.
func CompareCitationLists(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// locantNumber parses a numeric locant label; letter locants such as the
// amide "N" compare as zero.
func locantNumber(label string) int {
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0
	}
	return n
}

// sortedCopy returns a sorted copy of the locant slice.
func sortedCopy(locants []int) []int {
	out := append([]int(nil), locants...)
	sort.Ints(out)
	return out
}
