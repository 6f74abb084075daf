package pipeline

import (
	"strings"

	"mlbstats/internal"
)

// Window trims a deduplicated result to the part of the table that holds records.
// TrimTail drops trailing rows first, then Head keeps the leading rows. Zero disables either step.
type Window struct {
	Head     int
	TrimTail int
}

func Head(n int) Window { return Window{Head: n} }

func TrimTail(n int) Window { return Window{TrimTail: n} }

// Dedupe keeps the first item for each key, in input order.
func Dedupe[T any](items []T, key func(T) string) []T {
	seen := map[string]struct{}{}
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

func ApplyWindow[T any](items []T, w Window) []T {
	out := items
	if w.TrimTail > 0 {
		if w.TrimTail >= len(out) {
			return out[:0]
		}
		out = out[:len(out)-w.TrimTail]
	}
	if w.Head > 0 && w.Head < len(out) {
		out = out[:w.Head]
	}
	return out
}

func Finalize[T any](items []T, key func(T) string, w Window) []T {
	return ApplyWindow(Dedupe(items, key), w)
}

// KeyOf builds a dedupe key from one or more record fields.
func KeyOf(fields ...internal.Field) func(internal.RawRecord) string {
	return func(r internal.RawRecord) string {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, r.Get(f))
		}
		return strings.Join(parts, "\x1f")
	}
}

// ExcludeValues drops records whose field holds one of the given values.
func ExcludeValues(records []internal.RawRecord, field internal.Field, values []string) []internal.RawRecord {
	if len(values) == 0 {
		return records
	}
	excluded := make(map[string]struct{}, len(values))
	for _, v := range values {
		excluded[v] = struct{}{}
	}
	out := make([]internal.RawRecord, 0, len(records))
	for _, r := range records {
		if _, drop := excluded[r.Get(field)]; drop {
			continue
		}
		out = append(out, r)
	}
	return out
}
