package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/pkg/storefront"
)

func parseQuery(t *testing.T, args ...string) (storefront.FilterRequest, error) {
	t.Helper()
	cmd := newQueryCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	var f queryFlags
	f.url, _ = cmd.Flags().GetString("url")
	f.colors, _ = cmd.Flags().GetStringSlice("color")
	f.sizes, _ = cmd.Flags().GetStringSlice("size")
	f.preset, _ = cmd.Flags().GetString("price-preset")
	f.price, _ = cmd.Flags().GetFloat64Slice("price")
	f.sort, _ = cmd.Flags().GetString("sort")
	return f.request(cmd)
}

func TestQueryRequest_Defaults(t *testing.T) {
	req, err := parseQuery(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(req.Color, storefront.Colors) {
		t.Errorf("colors = %v, want all", req.Color)
	}
	if !slices.Equal(req.Size, storefront.Sizes) {
		t.Errorf("sizes = %v, want all", req.Size)
	}
	if req.Price != [2]float64{0, 100} {
		t.Errorf("price = %v", req.Price)
	}
	if req.Sort != storefront.SortNone {
		t.Errorf("sort = %q", req.Sort)
	}
}

func TestQueryRequest_Flags(t *testing.T) {
	req, err := parseQuery(t, "--color", "blue,green", "--size", "M", "--price", "35,15", "--sort", "price-desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(req.Color, []string{"blue", "green"}) {
		t.Errorf("colors = %v", req.Color)
	}
	if !slices.Equal(req.Size, []string{"M"}) {
		t.Errorf("sizes = %v", req.Size)
	}
	if req.Price != [2]float64{15, 35} {
		t.Errorf("price = %v, want normalized [15 35]", req.Price)
	}
	if req.Sort != storefront.SortPriceDesc {
		t.Errorf("sort = %q", req.Sort)
	}
}

func TestQueryRequest_EmptySelection(t *testing.T) {
	req, err := parseQuery(t, "--color=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Color == nil || len(req.Color) != 0 {
		t.Errorf("colors = %#v, want empty non-nil", req.Color)
	}
}

func TestQueryRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--price-preset", "cheap"}},
		{"single price", []string{"--price", "10"}},
		{"unknown sort", []string{"--sort", "random"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseQuery(t, tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestQueryCmd_PrintsResults(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"blue-m-1","score":0.5,"metadata":{"id":"blue-m-1","name":"Blue shirt 1","price":19.99,"size":"m","color":"blue","imageId":"/blue_1.png"}}]`))
	}))
	defer srv.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"query", "--url", srv.URL, "--color", "blue", "--price-preset", "under20"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.Contains(out.String(), "Blue shirt 1") || !strings.Contains(out.String(), "Size M, blue") {
		t.Errorf("output missing product card:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "$19.99") {
		t.Errorf("output missing price:\n%s", out.String())
	}
	filter, _ := got["filter"].(map[string]any)
	if filter == nil {
		t.Fatalf("request body = %v", got)
	}
	if price, _ := filter["price"].([]any); len(price) != 2 || price[1] != float64(20) {
		t.Errorf("price = %v, want [0 20]", filter["price"])
	}
}

func TestQueryCmd_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"query", "--url", srv.URL})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "no products match") {
		t.Errorf("output = %q", out.String())
	}
}

func TestOpenStore(t *testing.T) {
	cfg := config.Config{Index: config.IndexConfig{Driver: config.DriverMemory}}
	store, err := openStore(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("memory driver: %v", err)
	}
	store.Close()

	cfg.Index.Driver = "sqlite"
	if _, err := openStore(cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
