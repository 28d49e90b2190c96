// Package remote calls a hosted flyer generation service that speaks the
// same Result contract as the local generator.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

// GeneratePath is the endpoint served by both the hosted service and
// goflyer's own server.
const GeneratePath = "/v1/ai/generate-flyer-content"

// FlyerType tags requests for real estate flyers.
const FlyerType = "real_estate_flyer"

// ErrStatus wraps non-2xx responses.
var ErrStatus = errors.New("remote status")

// Request is the JSON body of a generation call.
type Request struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Client posts descriptions to a remote generation service.
type Client struct {
	BaseURL string
	// Token, when set, is sent as a bearer credential.
	Token string
	http  *retryablehttp.Client
}

// Options tunes NewClient. Zero values pick defaults.
type Options struct {
	Token      string
	RetryMax   int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient builds a client for baseURL. Retries are bounded and short so
// the caller's fallback kicks in quickly.
func NewClient(baseURL string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = opts.RetryMax
	// hand the last response back once retries run out so its status
	// surfaces as ErrStatus
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rc.HTTPClient.Timeout = timeout
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:   opts.Token,
		http:    rc,
	}
}

func (c *Client) Name() string { return string(flyer.SourceRemote) }

// Generate posts description and decodes the Result. A response that does
// not report success, or lacks a title, is an error.
func (c *Client) Generate(ctx context.Context, description string) (flyer.Result, error) {
	if c == nil || c.BaseURL == "" || c.http == nil {
		return flyer.Result{}, errors.New("remote generator not configured")
	}
	body, err := json.Marshal(Request{Description: description, Type: FlyerType})
	if err != nil {
		return flyer.Result{}, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return flyer.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return flyer.Result{}, fmt.Errorf("remote request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return flyer.Result{}, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	var res flyer.Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&res); err != nil {
		return flyer.Result{}, fmt.Errorf("decode remote result: %w", err)
	}
	if !res.Success {
		return flyer.Result{}, errors.New("remote reported failure")
	}
	if strings.TrimSpace(res.Data.Title) == "" {
		return flyer.Result{}, errors.New("remote result missing title")
	}
	if res.Data.CallToAction == "" {
		res.Data.CallToAction = flyer.CallToAction
	}
	res.Source = flyer.SourceRemote
	return res, nil
}
