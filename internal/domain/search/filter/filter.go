package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/product/field"
)

// MaxValuesPerClause is the maximum number of distinct values in one match clause.
const MaxValuesPerClause = 32

// Expression is a conjunction of clauses, kept in the order they were added.
type Expression struct {
	clauses []Clause
}

// NewExpression validates and creates a filter Expression.
func NewExpression(clauses ...Clause) (Expression, error) {
	seen := make(map[string]bool, len(clauses))
	for _, c := range clauses {
		if c.key == "" {
			return Expression{}, fmt.Errorf("clause key is required")
		}
		if seen[c.key] {
			return Expression{}, fmt.Errorf("duplicate clause for %q", c.key)
		}
		seen[c.key] = true
	}
	return Expression{clauses: clauses}, nil
}

// Build turns shopper selections into the catalog filter: one clause per category
// followed by the price range. An empty category selection excludes every product.
func Build(colors, sizes []string, minPrice, maxPrice float64) Expression {
	return Expression{clauses: []Clause{
		matchAny(field.Color, colors),
		matchAny(field.Size, sizes),
		{key: field.Price, rangeExpr: &Range{gte: minPrice, lte: maxPrice}},
	}}
}

// Clauses returns the clauses in order.
func (e Expression) Clauses() []Clause { return e.clauses }

// IsEmpty reports whether the expression has no clauses.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 }

// Satisfiable reports whether some record could match. A match clause with no
// values or an inverted range never matches.
func (e Expression) Satisfiable() bool {
	for _, c := range e.clauses {
		if c.MatchesNothing() {
			return false
		}
		if c.IsRange() && c.rangeExpr.gte > c.rangeExpr.lte {
			return false
		}
	}
	return true
}

// String renders the expression in the hosted index filter syntax:
//
//	(color = "white" OR color = "blue") AND (size = "S") AND (price >= 0 AND price <= 40)
func (e Expression) String() string {
	parts := make([]string, 0, len(e.clauses))
	for _, c := range e.clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}

// Clause is either a disjunction of equality terms over one field or an inclusive
// numeric range.
type Clause struct {
	key       string
	values    []string
	rangeExpr *Range
}

// NewMatchAny creates an equality clause over the distinct values, preserving first
// occurrence order. An empty value list yields a clause that matches nothing.
func NewMatchAny(key string, values []string) (Clause, error) {
	if key == "" {
		return Clause{}, fmt.Errorf("filter key is required")
	}
	c := matchAny(key, values)
	if len(c.values) > MaxValuesPerClause {
		return Clause{}, fmt.Errorf("too many values for %q (max %d)", key, MaxValuesPerClause)
	}
	return c, nil
}

// NewRange creates an inclusive numeric range clause. min > max is accepted and
// simply matches nothing.
func NewRange(key string, minValue, maxValue float64) (Clause, error) {
	if key == "" {
		return Clause{}, fmt.Errorf("filter key is required")
	}
	return Clause{key: key, rangeExpr: &Range{gte: minValue, lte: maxValue}}, nil
}

func matchAny(key string, values []string) Clause {
	distinct := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		distinct = append(distinct, v)
	}
	return Clause{key: key, values: distinct}
}

// Key returns the field name.
func (c Clause) Key() string { return c.key }

// Values returns the accepted values of a match clause.
func (c Clause) Values() []string { return c.values }

// Range returns the numeric range (nil for match clauses).
func (c Clause) Range() *Range { return c.rangeExpr }

// IsRange reports whether this is a range clause.
func (c Clause) IsRange() bool { return c.rangeExpr != nil }

// IsMatch reports whether this is a match clause.
func (c Clause) IsMatch() bool { return c.rangeExpr == nil }

// MatchesNothing reports whether this is a match clause with no accepted values.
func (c Clause) MatchesNothing() bool { return c.IsMatch() && len(c.values) == 0 }

// String renders the clause, always parenthesized.
func (c Clause) String() string {
	if c.rangeExpr != nil {
		return fmt.Sprintf("(%s >= %s AND %s <= %s)",
			c.key, formatNumber(c.rangeExpr.gte), c.key, formatNumber(c.rangeExpr.lte))
	}
	if len(c.values) == 0 {
		return fmt.Sprintf("(%s = \"\")", c.key)
	}
	terms := make([]string, len(c.values))
	for i, v := range c.values {
		terms[i] = fmt.Sprintf("%s = \"%s\"", c.key, v)
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// Range is an inclusive numeric range.
type Range struct {
	gte float64
	lte float64
}

// GTE returns the inclusive lower bound.
func (r Range) GTE() float64 { return r.gte }

// LTE returns the inclusive upper bound.
func (r Range) LTE() float64 { return r.lte }

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool { return v >= r.gte && v <= r.lte }

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
