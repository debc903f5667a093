package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

const (
	httpTimeout    = 10 * time.Second
	httpRetryCount = 3
)

// ServiceHTTP wraps outbound calls to third-party APIs with a shared
// retrying client.
type ServiceHTTP struct {
	client *httpclient.Client
}

func NewServiceHTTP() *ServiceHTTP {
	backoff := heimdall.NewConstantBackoff(500*time.Millisecond, 100*time.Millisecond)
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(httpTimeout),
		httpclient.WithRetryCount(httpRetryCount),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
	)
	return &ServiceHTTP{client: client}
}

func (service *ServiceHTTP) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := service.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
