package chi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/order"
)

// Defaults applied to GET /api/products when a parameter is omitted; they match the
// storefront's initial filter state.
var defaultPrice = []float64{0, 100}

// filterFromQuery binds ?color=white&color=blue&size=S&price=0,40&sort=price-asc.
// Missing color or size selects every value; a parameter given only as an empty value
// (?color=) is an explicit empty selection.
func filterFromQuery(q url.Values) (FilterBody, error) {
	var f FilterBody

	colors, err := bindList(q, "color")
	if err != nil {
		return f, err
	}
	if colors == nil {
		for _, c := range product.Colors() {
			colors = append(colors, string(c))
		}
	}

	sizes, err := bindList(q, "size")
	if err != nil {
		return f, err
	}
	if sizes == nil {
		for _, s := range product.Sizes() {
			sizes = append(sizes, string(s))
		}
	}

	var price []float64
	if err := runtime.BindQueryParameter("form", false, false, "price", q, &price); err != nil {
		return f, fmt.Errorf("bind price: %w", err)
	}
	if price == nil {
		price = append([]float64(nil), defaultPrice...)
	}

	sort := string(order.None)
	if err := runtime.BindQueryParameter("form", true, false, "sort", q, &sort); err != nil {
		return f, fmt.Errorf("bind sort: %w", err)
	}

	f.Color = colors
	f.Size = sizes
	f.Price = price
	f.Sort = sort
	return f, nil
}

// bindList returns nil when the parameter is absent and a non-nil slice (possibly
// empty) when it is present. Blank values are dropped.
func bindList(q url.Values, name string) ([]string, error) {
	if _, ok := q[name]; !ok {
		return nil, nil
	}
	var raw []string
	if err := runtime.BindQueryParameter("form", true, false, name, q, &raw); err != nil {
		return nil, fmt.Errorf("bind %s: %w", name, err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
