package bittrex

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/rickgao/bittrex-client/internal/auth"
	"github.com/rickgao/bittrex-client/internal/version"
)

// Defaults for a new Client.
const (
	DefaultBaseURL = "https://bittrex.com"
	DefaultTimeout = 30 * time.Second
)

// Observer receives the outcome of every dispatched call.
type Observer interface {
	ObserveCall(category Category, call string, elapsed time.Duration, err error)
}

// Client provides access to the Bittrex REST API.
//
// A Client is safe for concurrent use. Its credentials are fixed at
// construction; the only shared state is the atomic nonce generator.
type Client struct {
	baseURL  string
	signer   *auth.Signer // nil for public-only clients
	nonce    *auth.Nonce
	rest     *resty.Client
	logger   *slog.Logger
	observer Observer

	httpClient *http.Client
	timeout    time.Duration
	clock      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a client. Key and secret may both be empty for
// public-only usage; setting only one of them is an error.
func NewClient(key, secret string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	creds, err := auth.LoadCredentials(key, secret)
	if err != nil {
		return nil, errors.Wrap(err, "load credentials")
	}
	if creds != nil {
		c.signer, err = auth.NewSigner(creds)
		if err != nil {
			return nil, errors.Wrap(err, "create signer")
		}
	}

	c.nonce = auth.NewNonce(c.clock)

	hc := c.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	c.rest = resty.NewWithClient(hc).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent())

	return c, nil
}

// WithBaseURL sets the scheme and host requests are sent to.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets the underlying HTTP client. Its Timeout is replaced by
// the client's configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver registers an observer for call outcomes.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithClock sets the time source used for nonces.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// Authenticated reports whether the client holds credentials.
func (c *Client) Authenticated() bool {
	return c.signer != nil
}
