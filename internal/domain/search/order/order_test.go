package order

import "testing"

func TestIsValid(t *testing.T) {
	for _, m := range []Mode{None, PriceAsc, PriceDesc} {
		if !m.IsValid() {
			t.Errorf("%q should be valid", m)
		}
	}
	for _, m := range []Mode{"", "price", "PRICE-ASC"} {
		if m.IsValid() {
			t.Errorf("%q should be invalid", m)
		}
	}
}

func TestVector(t *testing.T) {
	prices := DefaultPrices()
	tests := []struct {
		mode Mode
		want float32
	}{
		{PriceAsc, 0},
		{PriceDesc, 50},
		{None, 25},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			v := tt.mode.Vector(prices)
			if len(v) != 3 {
				t.Fatalf("len = %d, want 3", len(v))
			}
			if v[0] != 0 || v[1] != 0 {
				t.Errorf("placeholders = %v, want zeros", v[:2])
			}
			if v[2] != tt.want {
				t.Errorf("sort component = %f, want %f", v[2], tt.want)
			}
		})
	}
}

func TestVector_CustomPrices(t *testing.T) {
	p := Prices{Max: 120, Avg: 60}
	if v := PriceDesc.Vector(p); v[2] != 120 {
		t.Errorf("desc = %f, want 120", v[2])
	}
	if v := None.Vector(p); v[2] != 60 {
		t.Errorf("none = %f, want 60", v[2])
	}
}
