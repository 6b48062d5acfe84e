package domain

import (
	"fmt"
	"strings"
)

// Algorithm identifies one of the supported sorting algorithms.
type Algorithm string

const (
	AlgorithmBubble    Algorithm = "bubble"
	AlgorithmSelection Algorithm = "selection"
	AlgorithmInsertion Algorithm = "insertion"
	AlgorithmMerge     Algorithm = "merge"
	AlgorithmQuick     Algorithm = "quick"
	AlgorithmHeap      Algorithm = "heap"
)

// AlgorithmInfo describes an algorithm for presentation.
type AlgorithmInfo struct {
	Algorithm       Algorithm `json:"algorithm"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	TimeComplexity  string    `json:"time_complexity"`
	SpaceComplexity string    `json:"space_complexity"`
}

var catalog = []AlgorithmInfo{
	{
		Algorithm:       AlgorithmBubble,
		Name:            "Bubble Sort",
		Description:     "Repeatedly compares adjacent elements and swaps them if they are in the wrong order.",
		TimeComplexity:  "Best O(n), Average O(n²), Worst O(n²)",
		SpaceComplexity: "O(1)",
	},
	{
		Algorithm:       AlgorithmSelection,
		Name:            "Selection Sort",
		Description:     "Selects the smallest element from the unsorted part and swaps it with the first element.",
		TimeComplexity:  "Best O(n²), Average O(n²), Worst O(n²)",
		SpaceComplexity: "O(1)",
	},
	{
		Algorithm:       AlgorithmInsertion,
		Name:            "Insertion Sort",
		Description:     "Builds the sorted array one item at a time by inserting elements into their correct positions.",
		TimeComplexity:  "Best O(n), Average O(n²), Worst O(n²)",
		SpaceComplexity: "O(1)",
	},
	{
		Algorithm:       AlgorithmMerge,
		Name:            "Merge Sort",
		Description:     "Divides the array into halves, sorts them, and then merges the sorted halves.",
		TimeComplexity:  "Best O(n log n), Average O(n log n), Worst O(n log n)",
		SpaceComplexity: "O(n)",
	},
	{
		Algorithm:       AlgorithmQuick,
		Name:            "Quick Sort",
		Description:     "Picks a pivot and partitions the array into elements smaller and larger than the pivot.",
		TimeComplexity:  "Best O(n log n), Average O(n log n), Worst O(n²)",
		SpaceComplexity: "O(log n)",
	},
	{
		Algorithm:       AlgorithmHeap,
		Name:            "Heap Sort",
		Description:     "Converts the array into a heap and repeatedly extracts the maximum element.",
		TimeComplexity:  "Best O(n log n), Average O(n log n), Worst O(n log n)",
		SpaceComplexity: "O(1)",
	},
}

// Algorithms returns the catalog in presentation order.
func Algorithms() []AlgorithmInfo {
	out := make([]AlgorithmInfo, len(catalog))
	copy(out, catalog)
	return out
}

// ParseAlgorithm resolves a tag (case-insensitive, optional "sort" suffix).
func ParseAlgorithm(tag string) (Algorithm, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.TrimSuffix(strings.TrimSuffix(t, "sort"), " ")
	t = strings.TrimSuffix(t, "-")
	for _, info := range catalog {
		if string(info.Algorithm) == t {
			return info.Algorithm, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, tag)
}

// Info returns the catalog entry for a.
func (a Algorithm) Info() (AlgorithmInfo, bool) {
	for _, info := range catalog {
		if info.Algorithm == a {
			return info, true
		}
	}
	return AlgorithmInfo{}, false
}

func (a Algorithm) String() string {
	return string(a)
}
