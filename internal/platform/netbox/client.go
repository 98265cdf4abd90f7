// Package netbox implements inventory.Repository against the NetBox REST API.
package netbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/siteprov/siteprov/internal/util/retry"
)

// DefaultPageSize is the page size used when listing collections.
const DefaultPageSize = 1000

// Client talks to one NetBox instance. It is safe for sequential reuse.
type Client struct {
	http     *resty.Client
	log      logr.Logger
	metrics  *metrics
	pageSize int

	retryOpts []retry.Option
}

type options struct {
	timeout    time.Duration
	insecure   bool
	requestID  string
	pageSize   int
	logger     logr.Logger
	registerer prometheus.Registerer
	httpClient *http.Client
	retryOpts  []retry.Option
}

// Option configures a Client.
type Option func(*options)

// WithTimeout bounds every HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *options) { o.insecure = skip }
}

// WithRequestID sets the X-Request-ID header sent with every request.
func WithRequestID(id string) Option {
	return func(o *options) { o.requestID = id }
}

// WithPageSize sets the page size used by List.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithLogger sets the logger used for request tracing at V(1).
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers the client's metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRetry enables retries of transport failures and 429/5xx responses.
func WithRetry(maxRetries int, initialDelay, maxDelay time.Duration) Option {
	return func(o *options) {
		o.retryOpts = []retry.Option{
			retry.WithMaxRetries(maxRetries),
			retry.WithInitialDelay(initialDelay),
			retry.WithMaxDelay(maxDelay),
		}
	}
}

// NewClient creates a client for the NetBox instance at baseURL, e.g.
// "https://netbox.example.com". The token is sent as "Authorization: Token <token>".
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" || token == "" {
		return nil, errors.New("netbox url and api token cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid netbox url %q", baseURL)
	}

	o := options{
		timeout:  30 * time.Second,
		pageSize: DefaultPageSize,
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/") + "/api").
		SetTimeout(o.timeout).
		SetHeader("Authorization", "Token "+token).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if o.requestID != "" {
		rc.SetHeader("X-Request-ID", o.requestID)
	}
	if o.insecure {
		rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in for lab instances
	}

	m := newMetrics()
	if o.registerer != nil {
		if err := m.register(o.registerer); err != nil {
			return nil, fmt.Errorf("failed to register netbox metrics: %w", err)
		}
	}

	return &Client{
		http:      rc,
		log:       o.logger,
		metrics:   m,
		pageSize:  o.pageSize,
		retryOpts: append(o.retryOpts, retry.WithOnRetry(retryLogger(o.logger))),
	}, nil
}

func retryLogger(log logr.Logger) func(int, time.Duration, error) {
	return func(attempt int, delay time.Duration, err error) {
		log.Info("retrying inventory request", "attempt", attempt, "delay", delay, "error", err.Error())
	}
}

// do sends one request, retrying per the client's policy. Responses with a
// non-retryable status are returned without error for the caller to interpret.
func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request)) (*resty.Response, error) {
	var resp *resty.Response

	err := retry.WithExponentialBackoff(ctx, func() error {
		req := c.http.R().SetContext(ctx)
		if build != nil {
			build(req)
		}

		start := time.Now()
		r, err := req.Execute(method, path)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Fatal(err)
			}
			return err
		}

		c.log.V(1).Info("inventory request", "method", method, "path", path,
			"status", r.StatusCode(), "duration", time.Since(start))

		resp = r
		if retryableStatus(r.StatusCode()) {
			return newAPIError(method, path, r.StatusCode(), r.Body())
		}
		return nil
	}, c.retryOpts...)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
