package provider

import (
	"context"
	"io"
	"net/http"
)

// Request identifies the asset being analyzed. Query is the caller's raw
// input; CoinID and Symbol are filled in during resolution.
type Request struct {
	Query  string
	CoinID string
	Symbol string
	Name   string
}

// doGet acquires the shared rate limiter for providerID, issues the request,
// and maps every failure mode onto the FetchError taxonomy. The raw transport
// response never leaves this function.
func doGet(ctx context.Context, limiter *RateLimiter, client *http.Client, providerID, url string, headers map[string]string) ([]byte, error) {
	if err := limiter.Acquire(ctx, providerID); err != nil {
		return nil, newFetchError(providerID, KindUnreachable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newFetchError(providerID, KindMalformed, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransport(providerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, classifyStatus(providerID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(providerID, err)
	}
	return body, nil
}
