package utils

import (
	"cmp"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// GroupBy buckets items by key, keeping input order inside each bucket
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	return lo.GroupBy(items, key)
}

// Uniq drops repeated items, first occurrence wins
func Uniq[T comparable](items []T) []T {
	return lo.Uniq(items)
}

// UniqBy drops items whose key was already seen, first occurrence wins
func UniqBy[T any, K comparable](items []T, key func(T) K) []T {
	return lo.UniqBy(items, key)
}

// UniqWith drops items equal to an earlier one under eq.
// It is quadratic, use UniqBy when a key can be derived.
func UniqWith[T any](items []T, eq func(a, b T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if lo.ContainsBy(out, func(seen T) bool { return eq(seen, item) }) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ArrayEquals compares a and b element by element over their longer length,
// or only over the first length elements when length is not negative.
func ArrayEquals[T comparable](a, b []T, length int) bool {
	l := max(len(a), len(b))
	if length >= 0 {
		l = min(l, length)
	}
	for i := range l {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetEquals reports whether both sets hold the same elements
func SetEquals[T comparable](a, b mapset.Set[T]) bool {
	return a.Equal(b)
}

// EqualsAsSet compares a and b ignoring order and repetition
func EqualsAsSet[T comparable](a, b []T) bool {
	return SetEquals(mapset.NewThreadUnsafeSet(a...), mapset.NewThreadUnsafeSet(b...))
}

// Max returns the largest item, or empty when there are none
func Max[T cmp.Ordered](items []T, empty T) T {
	if len(items) == 0 {
		return empty
	}
	return lo.Max(items)
}
