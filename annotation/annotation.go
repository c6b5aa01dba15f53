// Package annotation holds cross-reference annotations of model entities
// (genes, reactions, metabolites) as sets of values per database key, and
// merges them across curation passes.
package annotation

import (
	"sort"
)

// Set is an unordered collection of distinct annotation values.
type Set map[string]struct{}

// NewSet creates a set holding the given values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	s.Add(values...)
	return s
}

// Add inserts values into the set.
func (s Set) Add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

// Len returns the number of values.
func (s Set) Len() int {
	return len(s)
}

// Union adds every value of other to s.
func (s Set) Union(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Sorted returns the values in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Annotations maps an annotation key (usually a database prefix such as
// "kegg.genes" or "refseq") to its values.
type Annotations map[string]Set

// Add appends values under key, creating the key if needed. Adding no values
// still registers the key.
func (a Annotations) Add(key string, values ...string) {
	s, ok := a[key]
	if !ok {
		s = NewSet()
		a[key] = s
	}
	s.Add(values...)
}

// Get returns the sorted values of key, or nil if the key is absent.
func (a Annotations) Get(key string) []string {
	s, ok := a[key]
	if !ok {
		return nil
	}
	return s.Sorted()
}

// Keys returns the annotation keys in lexical order.
func (a Annotations) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge unions other into a and returns a. Keys only present in other are
// copied, so later changes to other do not leak into a.
func (a Annotations) Merge(other Annotations) Annotations {
	for k, vals := range other {
		s, ok := a[k]
		if !ok {
			s = make(Set, len(vals))
			a[k] = s
		}
		s.Union(vals)
	}
	return a
}

// Merge unions all given annotations into a new value that shares no sets
// with its arguments.
func Merge(all ...Annotations) Annotations {
	out := make(Annotations)
	for _, a := range all {
		out.Merge(a)
	}
	return out
}

// Unique returns the items of in with duplicates removed, keeping the first
// occurrence of each.
func Unique[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
