package storefront

import "fmt"

// APIError is returned for any non-200 response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront: http %d", e.StatusCode)
	}
	return fmt.Sprintf("storefront: http %d: %s", e.StatusCode, e.Message)
}
