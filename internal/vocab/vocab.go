// Package vocab holds the closed vocabularies for classification fields.
// Sets are fixed at construction; there is no dynamic registration.
package vocab

import "strings"

// Named vocabulary sets.
const (
	Moods     = "moods"
	Statuses  = "statuses"
	Reactions = "reactions"
)

// Registry answers membership questions for named value sets.
// Matching is case-sensitive and exact.
type Registry struct {
	sets map[string]map[string]struct{}
}

// Default returns the registry with the fixed deployment vocabularies.
func Default() *Registry {
	return newRegistry(map[string][]string{
		Moods:     {"happy", "calm", "focused", "excited", "tired", "stressed"},
		Statuses:  {"drafted", "in_review", "published", "archived", "flagged"},
		Reactions: {"like", "love", "laugh", "wow", "sad", "fire"},
	})
}

func newRegistry(sets map[string][]string) *Registry {
	r := &Registry{sets: make(map[string]map[string]struct{}, len(sets))}
	for name, values := range sets {
		m := make(map[string]struct{}, len(values))
		for _, v := range values {
			m[v] = struct{}{}
		}
		r.sets[name] = m
	}
	return r
}

// IsValid reports whether value belongs to the named set. Unknown set names
// are simply not valid for any value.
func (r *Registry) IsValid(set, value string) bool {
	values, ok := r.sets[set]
	if !ok {
		return false
	}
	_, ok = values[value]
	return ok
}

// Values returns the members of the named set. The slice is a copy.
func (r *Registry) Values(set string) []string {
	values, ok := r.sets[set]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	return out
}

// Label renders a vocabulary token as its human-readable display form:
// underscores become spaces and each word is title-cased, so "in_review"
// becomes "In Review". The stored value is never mutated.
func Label(value string) string {
	words := strings.Split(value, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
