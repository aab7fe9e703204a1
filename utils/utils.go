// Package utils provides small helpers shared by the whole module.
package utils

// Set is a set of keywords, such as the counters
// defined in a scope, or the values accepted by a property.
type Set map[string]struct{}

func (s Set) Add(key string) { s[key] = struct{}{} }

func (s Set) Has(key string) bool {
	_, in := s[key]
	return in
}

func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}
