package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/andrebq/greeter/server"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/urfave/cli/v2"
)

type Options struct {
	// Retries is the number of extra attempts after the first one.
	// Connection errors and 5xx responses are retried.
	Retries int
	// Timeout applies to each attempt. Zero means no timeout.
	Timeout time.Duration
}

// Check requests GET / on the service at baseURL and fails unless it answers
// 200 with the greeting.
func Check(ctx context.Context, baseURL string, opts Options) error {
	serverURL, err := url.Parse(baseURL)
	if err != nil {
		return cli.Exit("invalid server URL: "+err.Error(), 1)
	}
	serverURL.Path = path.Join("/", serverURL.Path)

	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = slog.Default()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, serverURL.String(), nil)
	if err != nil {
		return cli.Exit("failed to create request: "+err.Error(), 1)
	}

	resp, err := client.Do(req)
	if err != nil {
		return cli.Exit("check failed: "+err.Error(), 1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return cli.Exit("failed to read response: "+err.Error(), 1)
	}
	if resp.StatusCode != http.StatusOK {
		return cli.Exit(fmt.Sprintf("check failed: status=%d body=%s", resp.StatusCode, string(body)), 1)
	}
	if string(body) != server.Greeting {
		return cli.Exit(fmt.Sprintf("check failed: unexpected body %q", string(body)), 1)
	}
	slog.Debug("Check passed", "url", serverURL.String())
	return nil
}
