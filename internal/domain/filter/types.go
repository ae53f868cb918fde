// Package filter defines list filtering primitives shared by repositories
// and the HTTP layer.
package filter

// ComparisonType names a comparison operator as it appears on the wire.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"

	// InList and NotInList expect an array value.
	InList    ComparisonType = "in"
	NotInList ComparisonType = "nin"

	// Contains maps to ILIKE with the value wrapped in wildcards.
	Contains    ComparisonType = "contains"
	NotContains ComparisonType = "ncontains"

	// IsNull and IsNotNull take no value.
	IsNull    ComparisonType = "null"
	IsNotNull ComparisonType = "not_null"
)

// Item is one condition. Field must be a snake_case column name known
// to the target repository, unknown fields are rejected when applied.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}
