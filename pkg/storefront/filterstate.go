package storefront

import (
	"fmt"
	"math"
	"slices"
)

// PricePreset is one of the fixed price options of the filter panel.
type PricePreset struct {
	Label string
	Range [2]float64
}

// Price presets in display order.
var (
	PriceAny     = PricePreset{Label: "Any price", Range: [2]float64{0, 100}}
	PriceUnder20 = PricePreset{Label: "Under $20", Range: [2]float64{0, 20}}
	PriceUnder40 = PricePreset{Label: "Under $40", Range: [2]float64{0, 40}}

	PricePresets = []PricePreset{PriceAny, PriceUnder20, PriceUnder40}
)

// FilterState mirrors the storefront filter panel. The zero value is not usable; call
// NewFilterState.
type FilterState struct {
	colors []string
	sizes  []string
	price  [2]float64
	custom bool
	sort   SortMode
}

// NewFilterState selects every color and size, any price and no sort.
func NewFilterState() *FilterState {
	return &FilterState{
		colors: slices.Clone(Colors),
		sizes:  slices.Clone(Sizes),
		price:  PriceAny.Range,
		sort:   SortNone,
	}
}

// ToggleColor removes color when selected and appends it otherwise.
func (s *FilterState) ToggleColor(color string) {
	s.colors = toggle(s.colors, color)
}

// ToggleSize removes size when selected and appends it otherwise.
func (s *FilterState) ToggleSize(size string) {
	s.sizes = toggle(s.sizes, size)
}

// SetSort changes the sort mode.
func (s *FilterState) SetSort(m SortMode) error {
	switch m {
	case SortNone, SortPriceAsc, SortPriceDesc:
		s.sort = m
		return nil
	}
	return fmt.Errorf("storefront: unknown sort mode %q", m)
}

// SetPricePreset selects a fixed price range and leaves custom mode.
func (s *FilterState) SetPricePreset(p PricePreset) {
	s.price = p.Range
	s.custom = false
}

// SetCustomPrice enters custom mode with the slider positions as given; a and b may
// be in either order.
func (s *FilterState) SetCustomPrice(a, b float64) {
	s.price = [2]float64{a, b}
	s.custom = true
}

// IsCustomPrice reports whether the price comes from the custom slider.
func (s *FilterState) IsCustomPrice() bool { return s.custom }

// PriceLabel renders the selected range with whole-dollar bounds, e.g. "$0 - $40".
func (s *FilterState) PriceLabel() string {
	lo, hi := s.bounds()
	return fmt.Sprintf("$%.0f - $%.0f", lo, hi)
}

// Request snapshots the state as a FilterRequest. Custom ranges are sent as [min, max].
func (s *FilterState) Request() FilterRequest {
	lo, hi := s.bounds()
	return FilterRequest{
		Color: slices.Clone(s.colors),
		Size:  slices.Clone(s.sizes),
		Price: [2]float64{lo, hi},
		Sort:  s.sort,
	}
}

func (s *FilterState) bounds() (float64, float64) {
	if !s.custom {
		return s.price[0], s.price[1]
	}
	return math.Min(s.price[0], s.price[1]), math.Max(s.price[0], s.price[1])
}

func toggle(list []string, v string) []string {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(list, v)
}
