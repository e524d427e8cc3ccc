package repository

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Filters are conjunctions of optional predicates compiled to SQL with
// squirrel. Nil pointer fields mean "not filtered". String matching uses
// LIKE, which is case-insensitive under the utf8mb4 default collation.

// contains wraps a value for a substring LIKE match.
func contains(v string) string { return "%" + v + "%" }

// TimeRange filters a timestamp column by optional lower/upper bounds.
type TimeRange struct {
	After  *time.Time
	Before *time.Time
}

// apply adds the range predicates for col to the builder.
func (r TimeRange) apply(b sq.SelectBuilder, col string) sq.SelectBuilder {
	if r.After != nil {
		b = b.Where(sq.GtOrEq{col: r.After.UTC()})
	}
	if r.Before != nil {
		b = b.Where(sq.LtOrEq{col: r.Before.UTC()})
	}
	return b
}

// FloatBound filters a numeric column by exact value and/or bounds.
type FloatBound struct {
	Eq  *float64
	Min *float64
	Max *float64
}

func (f FloatBound) apply(b sq.SelectBuilder, col string) sq.SelectBuilder {
	if f.Eq != nil {
		b = b.Where(sq.Eq{col: *f.Eq})
	}
	if f.Min != nil {
		b = b.Where(sq.GtOrEq{col: *f.Min})
	}
	if f.Max != nil {
		b = b.Where(sq.LtOrEq{col: *f.Max})
	}
	return b
}

// IntBound is FloatBound for integer columns.
type IntBound struct {
	Eq  *int
	Min *int
	Max *int
}

func (f IntBound) apply(b sq.SelectBuilder, col string) sq.SelectBuilder {
	if f.Eq != nil {
		b = b.Where(sq.Eq{col: *f.Eq})
	}
	if f.Min != nil {
		b = b.Where(sq.GtOrEq{col: *f.Min})
	}
	if f.Max != nil {
		b = b.Where(sq.LtOrEq{col: *f.Max})
	}
	return b
}
