package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/storefront/pkg/storefront"
)

type queryFlags struct {
	url     string
	apiKey  string
	colors  []string
	sizes   []string
	preset  string
	price   []float64
	sort    string
	timeout time.Duration
	jsonOut bool
}

func newQueryCmd() *cobra.Command {
	var f queryFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a running storefront API and print matching products",
		Example: `  storefront query --color blue,green --size M --sort price-asc
  storefront query --price-preset under20
  storefront query --price 15,35 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}

			opts := []storefront.Option{storefront.WithTimeout(f.timeout)}
			if f.apiKey != "" {
				opts = append(opts, storefront.WithAPIKey(f.apiKey))
			}
			client, err := storefront.New(f.url, opts...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			results, err := client.Products(ctx, req)
			if err != nil {
				return err
			}

			if f.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return printResults(cmd.OutOrStdout(), results)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "http://localhost:8080", "Storefront API base URL")
	fl.StringVar(&f.apiKey, "api-key", "", "Bearer token")
	fl.StringSliceVar(&f.colors, "color", nil, "Colors to include (default all; empty selects none)")
	fl.StringSliceVar(&f.sizes, "size", nil, "Sizes to include (default all; empty selects none)")
	fl.StringVar(&f.preset, "price-preset", "any", "Price preset: any, under20, under40")
	fl.Float64SliceVar(&f.price, "price", nil, "Custom price range as min,max")
	fl.StringVar(&f.sort, "sort", string(storefront.SortNone), "Sort: none, price-asc, price-desc")
	fl.DurationVar(&f.timeout, "timeout", 10*time.Second, "Request timeout")
	fl.BoolVar(&f.jsonOut, "json", false, "Print raw JSON results")
	cmd.MarkFlagsMutuallyExclusive("price", "price-preset")
	return cmd
}

// request maps flags onto the filter panel state.
func (f *queryFlags) request(cmd *cobra.Command) (storefront.FilterRequest, error) {
	state := storefront.NewFilterState()

	switch f.preset {
	case "any":
		state.SetPricePreset(storefront.PriceAny)
	case "under20":
		state.SetPricePreset(storefront.PriceUnder20)
	case "under40":
		state.SetPricePreset(storefront.PriceUnder40)
	default:
		return storefront.FilterRequest{}, fmt.Errorf("unknown price preset %q", f.preset)
	}
	if cmd.Flags().Changed("price") {
		if len(f.price) != 2 {
			return storefront.FilterRequest{}, fmt.Errorf("--price takes exactly two values, got %d", len(f.price))
		}
		state.SetCustomPrice(f.price[0], f.price[1])
	}
	if err := state.SetSort(storefront.SortMode(f.sort)); err != nil {
		return storefront.FilterRequest{}, err
	}

	req := state.Request()
	if cmd.Flags().Changed("color") {
		req.Color = nonNil(f.colors)
	}
	if cmd.Flags().Changed("size") {
		req.Size = nonNil(f.sizes)
	}
	return req, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func printResults(w io.Writer, results []storefront.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no products match")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDETAILS\tPRICE\tID")
	for _, r := range results {
		p := r.Metadata
		fmt.Fprintf(tw, "%s\t%s\t$%.2f\t%s\n", p.Name, p.Caption(), p.Price, p.ID)
	}
	return tw.Flush()
}
