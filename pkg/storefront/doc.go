// Package storefront is a Go client for the storefront product API.
//
// It carries the shopper-side behaviour of the storefront: the filter panel state,
// a debounced refetcher that keeps only the newest response, and the product card
// caption.
//
//	client, _ := storefront.New("http://localhost:8080")
//	state := storefront.NewFilterState()
//	state.ToggleColor("white") // deselect white
//	state.SetPricePreset(storefront.PriceUnder40)
//	results, _ := client.Products(ctx, state.Request())
//	for _, r := range results {
//	    fmt.Println(r.Metadata.Name, r.Metadata.Caption())
//	}
//
// Interactive callers wrap Products in a Refetcher:
//
//	rf := storefront.NewRefetcher(ctx, client.Products, func(u storefront.Update) { render(u) })
//	defer rf.Stop()
//	rf.Trigger(state.Request())
package storefront
