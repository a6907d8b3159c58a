// Package fieldmap fills the fields of a note schema from a word record.
//
// Each field name is classified into a Rule: exact case-insensitive names
// first, then substring heuristics. Unknown fields map to an empty value.
// Map is pure; the same inputs always give the same mapping.
package fieldmap
