package httpx

import (
	"fmt"
	"net/http"
)

// APIKeyRoundTripper adds the API key to every request as a query parameter.
type APIKeyRoundTripper struct {
	next  http.RoundTripper
	param string
	key   string
}

func NewAPIKeyRoundTripper(next http.RoundTripper, param, key string) APIKeyRoundTripper {
	return APIKeyRoundTripper{
		next:  next,
		param: param,
		key:   key,
	}
}

func (rt APIKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.key == "" {
		return nil, fmt.Errorf("api key for %s is not set", req.URL.Host)
	}

	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())

	query := req.URL.Query()
	query.Set(rt.param, rt.key)
	req.URL.RawQuery = query.Encode()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
