package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	keys := []string{"storefront-web", "storefront-cli"}

	tests := []struct {
		name    string
		keys    []string
		method  string
		path    string
		auth    string
		status  int
		message string
	}{
		{name: "no keys configured", keys: nil, method: http.MethodPost, path: "/api/products", status: http.StatusOK},
		{name: "blank keys ignored", keys: []string{""}, method: http.MethodPost, path: "/api/products", status: http.StatusOK},
		{name: "missing header", keys: keys, method: http.MethodPost, path: "/api/products",
			status: http.StatusUnauthorized, message: "missing authorization header"},
		{name: "basic scheme", keys: keys, method: http.MethodGet, path: "/api/products", auth: "Basic c2hvcA==",
			status: http.StatusUnauthorized, message: "authorization header must use Bearer scheme"},
		{name: "unknown key", keys: keys, method: http.MethodPost, path: "/api/products", auth: "Bearer nope",
			status: http.StatusUnauthorized, message: "invalid api key"},
		{name: "web key", keys: keys, method: http.MethodPost, path: "/api/products", auth: "Bearer storefront-web",
			status: http.StatusOK},
		{name: "cli key", keys: keys, method: http.MethodGet, path: "/api/products", auth: "Bearer storefront-cli",
			status: http.StatusOK},
		{name: "health exempt", keys: keys, method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "metrics exempt", keys: keys, method: http.MethodGet, path: "/metrics", status: http.StatusOK},
		{name: "preflight exempt", keys: keys, method: http.MethodOptions, path: "/api/products", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tt.keys)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.message == "" {
				return
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type = %q", ct)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.message {
				t.Errorf("message = %q, want %q", body.Message, tt.message)
			}
		})
	}
}

// A browser storefront on another origin preflights before the authorized POST.
func TestHandler_PreflightThenAuthorizedQuery(t *testing.T) {
	h := newHandler(seededRepo(t), nil, Options{
		APIKeys:        []string{"storefront-web"},
		AllowedOrigins: []string{"https://shop.example"},
	})

	pre := httptest.NewRequest(http.MethodOptions, "/api/products", http.NoBody)
	pre.Header.Set("Origin", "https://shop.example")
	pre.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, pre)

	if rr.Code == http.StatusUnauthorized {
		t.Fatal("preflight must not require a token")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Errorf("allow-origin = %q", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/products",
		strings.NewReader(`{"filter":{"color":["blue"],"size":["S","M"],"price":[0,100],"sort":"price-asc"}}`))
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer storefront-web")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := ids(decodeResults(t, rr)); len(got) != 2 || got[0] != "blue-S-1" || got[1] != "blue-M-1" {
		t.Errorf("ids = %v, want [blue-S-1 blue-M-1]", got)
	}
}
