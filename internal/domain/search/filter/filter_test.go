package filter

import (
	"strings"
	"testing"
)

func TestBuild_BlueGreenMediumUnder35(t *testing.T) {
	expr := Build(nil, []string{"S"}, 0, 40)

	want := `(color = "") AND (size = "S") AND (price >= 0 AND price <= 40)`
	if got := expr.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuild_OrJoinsSelections(t *testing.T) {
	expr := Build([]string{"white", "blue"}, []string{"S", "M", "L"}, 0, 100)

	want := `(color = "white" OR color = "blue") AND ` +
		`(size = "S" OR size = "M" OR size = "L") AND ` +
		`(price >= 0 AND price <= 100)`
	if got := expr.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuild_DistinctValues(t *testing.T) {
	expr := Build([]string{"blue", "green", "blue", "green", "purple"}, []string{"M"}, 0, 20)

	color := expr.Clauses()[0]
	if len(color.Values()) != 3 {
		t.Fatalf("values = %v, want 3 distinct", color.Values())
	}
	if n := strings.Count(color.String(), "color = "); n != 3 {
		t.Errorf("term count = %d, want 3 in %s", n, color.String())
	}
	if got := color.Values(); got[0] != "blue" || got[1] != "green" || got[2] != "purple" {
		t.Errorf("order = %v, want first-occurrence order", got)
	}
}

func TestBuild_EmptySelectionMatchesNothing(t *testing.T) {
	tests := []struct {
		name   string
		colors []string
		sizes  []string
		want   string
	}{
		{"no colors", []string{}, []string{"L"}, `(color = "")`},
		{"no sizes", []string{"beige"}, nil, `(size = "")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := Build(tt.colors, tt.sizes, 0, 100)
			if !strings.Contains(expr.String(), tt.want) {
				t.Errorf("String() = %s, want clause %s", expr.String(), tt.want)
			}
			if expr.Satisfiable() {
				t.Error("Satisfiable() = true for an empty selection")
			}
		})
	}
}

func TestBuild_PriceAlwaysPresentAndInclusive(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     string
	}{
		{"any price", 0, 100, "(price >= 0 AND price <= 100)"},
		{"fractional", 12.5, 37.25, "(price >= 12.5 AND price <= 37.25)"},
		{"point", 20, 20, "(price >= 20 AND price <= 20)"},
		{"inverted", 40, 10, "(price >= 40 AND price <= 10)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := Build([]string{"white"}, []string{"S"}, tt.min, tt.max)
			clauses := expr.Clauses()
			last := clauses[len(clauses)-1]
			if !last.IsRange() {
				t.Fatal("last clause should be the price range")
			}
			if last.String() != tt.want {
				t.Errorf("price clause = %s, want %s", last.String(), tt.want)
			}
			if tt.min <= tt.max {
				if !last.Range().Contains(tt.min) || !last.Range().Contains(tt.max) {
					t.Error("bounds must be inclusive")
				}
			}
		})
	}
}

func TestNewMatchAny(t *testing.T) {
	c, err := NewMatchAny("color", []string{"white"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsMatch() || c.IsRange() {
		t.Error("expected a match clause")
	}
	if c.Key() != "color" {
		t.Errorf("Key() = %q", c.Key())
	}
	if c.MatchesNothing() {
		t.Error("MatchesNothing() = true for a non-empty clause")
	}
}

func TestNewMatchAny_EmptyKey(t *testing.T) {
	if _, err := NewMatchAny("", []string{"x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewMatchAny_TooManyValues(t *testing.T) {
	values := make([]string, MaxValuesPerClause+1)
	for i := range values {
		values[i] = strings.Repeat("v", i+1)
	}
	_, err := NewMatchAny("tag", values)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too many values") {
		t.Errorf("error = %q", err)
	}
}

func TestNewRange(t *testing.T) {
	c, err := NewRange("price", 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Range().GTE() != 5 || c.Range().LTE() != 10 {
		t.Errorf("range = [%f %f]", c.Range().GTE(), c.Range().LTE())
	}
	if c.MatchesNothing() {
		t.Error("range clauses are never MatchesNothing")
	}
	if _, err := NewRange("", 0, 1); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestNewExpression(t *testing.T) {
	a, _ := NewMatchAny("color", []string{"blue"})
	b, _ := NewRange("price", 0, 10)

	expr, err := NewExpression(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if expr.String() != `(color = "blue") AND (price >= 0 AND price <= 10)` {
		t.Errorf("String() = %s", expr.String())
	}

	if _, err := NewExpression(a, a); err == nil {
		t.Error("expected error for duplicate clause")
	}
}

func TestExpression_Empty(t *testing.T) {
	var expr Expression
	if !expr.IsEmpty() {
		t.Error("zero Expression should be empty")
	}
	if !expr.Satisfiable() {
		t.Error("empty expression matches everything")
	}
	if expr.String() != "" {
		t.Errorf("String() = %q", expr.String())
	}
}

func TestSatisfiable_InvertedRange(t *testing.T) {
	if Build([]string{"white"}, []string{"S"}, 40, 10).Satisfiable() {
		t.Error("inverted price range cannot match")
	}
	if !Build([]string{"white"}, []string{"S"}, 20, 20).Satisfiable() {
		t.Error("single-point range should be satisfiable")
	}
}
