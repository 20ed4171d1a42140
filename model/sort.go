package model

// SortKind distinguishes the sorts BTOR2 can declare. Only Bitvec is
// evaluable; Array is recognized so that header/parse-time validation can
// give a precise "unsupported sort" error instead of choking on an unknown
// tag.
type SortKind int

const (
	// SortBitvec is a bit-vector sort of a positive width.
	SortBitvec SortKind = iota
	// SortArray is recognized but unsupported at the core level.
	SortArray
)

// Sort is the type of a node: always a bit-vector sort of positive width
// at the core level, or (recognized but rejected) an array sort.
type Sort struct {
	ID    int64
	Kind  SortKind
	Width uint32 // meaningful only when Kind == SortBitvec
}
