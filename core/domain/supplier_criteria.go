package domain

// CriterionOp is the comparison a Criterion applies to its field.
type CriterionOp int

const (
	// MatchSubstring matches the value anywhere in the field, case-insensitively.
	MatchSubstring CriterionOp = iota
	// MatchPattern matches the value as a case-insensitive pattern, used for
	// email equality where the address casing must not matter.
	MatchPattern
	// MatchPrefix matches the field starting with the value, case-sensitively.
	MatchPrefix
	// MatchEqual is exact equality.
	MatchEqual
	// MatchGTE is a numeric greater-or-equal comparison; Value is the decimal
	// string to compare against.
	MatchGTE
	// MatchAll requires a collection field to contain every listed value.
	MatchAll
)

// Criterion is one storage-agnostic filter predicate. A search is the
// conjunction of its criteria; the storage adapter translates them into its
// native query representation.
type Criterion struct {
	Field string
	Op    CriterionOp
	Value any
}
