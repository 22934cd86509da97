package bittrex

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
)

// roundTripFunc lets tests capture outbound requests without a listener.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// recorded is one request seen by the fake exchange.
type recorded struct {
	URL       string
	Path      string
	Query     url.Values
	Signature string
}

// fakeExchange serves a fixed body and records every request.
type fakeExchange struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recorded
	body     string
	status   int
}

func newFakeExchange(t *testing.T, body string) *fakeExchange {
	t.Helper()
	f := &fakeExchange{body: body, status: http.StatusOK}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, recorded{
			URL:       "http://" + r.Host + r.RequestURI,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Signature: r.Header.Get("apisign"),
		})
		status, body := f.status, f.body
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeExchange) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the server")
	return f.requests[len(f.requests)-1]
}

func (f *fakeExchange) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeExchange) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, baseURL, key, secret string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(baseURL), WithTimeout(5 * time.Second)}, opts...)
	c, err := NewClient(key, secret, opts...)
	require.NoError(t, err)
	return c
}

func expectedSignature(secret, rawURL string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(rawURL))
	return hex.EncodeToString(mac.Sum(nil))
}

const okEnvelope = `{"success":true,"message":"","result":[{"a":1}]}`

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := NewClient("", "")
		require.NoError(t, err)

		assert.Equal(t, DefaultBaseURL, c.baseURL)
		assert.Equal(t, DefaultTimeout, c.rest.GetClient().Timeout)
		assert.NotNil(t, c.logger)
		assert.False(t, c.Authenticated())
	})

	t.Run("with credentials", func(t *testing.T) {
		c, err := NewClient(testKey, testSecret)
		require.NoError(t, err)
		assert.True(t, c.Authenticated())
	})

	t.Run("half credentials", func(t *testing.T) {
		_, err := NewClient(testKey, "")
		assert.Error(t, err)

		_, err = NewClient("", testSecret)
		assert.Error(t, err)
	})

	t.Run("options", func(t *testing.T) {
		hc := &http.Client{}
		c, err := NewClient("", "",
			WithBaseURL("https://example.com/"),
			WithTimeout(7*time.Second),
			WithHTTPClient(hc),
		)
		require.NoError(t, err)

		assert.Equal(t, "https://example.com", c.baseURL)
		assert.Same(t, hc, c.rest.GetClient())
		assert.Equal(t, 7*time.Second, hc.Timeout)
	})
}

func TestCategory(t *testing.T) {
	tests := []struct {
		category Category
		path     string
		auth     bool
		name     string
	}{
		{CategoryPublic, "/api/v1.1/public/", false, "public"},
		{CategoryMarket, "/api/v1.1/market/", true, "market"},
		{CategoryAccount, "/api/v1.1/account/", true, "account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := tt.category.BasePath()
			require.NoError(t, err)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.auth, tt.category.Authenticated())
			assert.Equal(t, tt.name, tt.category.String())

			parsed, err := ParseCategory(strings.ToUpper(tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.category, parsed)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := Category(0).BasePath()
		assert.ErrorIs(t, err, ErrUnknownCategory)
		assert.False(t, Category(9).Authenticated())
		assert.Equal(t, "category(9)", Category(9).String())

		_, err = ParseCategory("wallet")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})
}

func TestDo_Public(t *testing.T) {
	ex := newFakeExchange(t, okEnvelope)
	c := newTestClient(t, ex.URL, testKey, testSecret)

	result, err := c.Do(context.Background(), "getticker", CategoryPublic, NewParams().Set("market", "BTC-LTC"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1}]`, string(result))

	req := ex.last(t)
	assert.Equal(t, "/api/v1.1/public/getticker", req.Path)
	assert.Equal(t, ex.URL+"/api/v1.1/public/getticker?market=BTC-LTC", req.URL)
	assert.Empty(t, req.Signature)
	assert.NotContains(t, req.URL, "apikey")
	assert.NotContains(t, req.URL, "nonce")
}

func TestDo_PublicNoParams(t *testing.T) {
	ex := newFakeExchange(t, okEnvelope)
	c := newTestClient(t, ex.URL, "", "")

	_, err := c.Do(context.Background(), "getmarkets", CategoryPublic, nil)
	require.NoError(t, err)
	assert.Equal(t, ex.URL+"/api/v1.1/public/getmarkets", ex.last(t).URL)
}

func TestDo_Signed(t *testing.T) {
	for _, category := range []Category{CategoryMarket, CategoryAccount} {
		t.Run(category.String(), func(t *testing.T) {
			ex := newFakeExchange(t, okEnvelope)
			c := newTestClient(t, ex.URL, testKey, testSecret)

			_, err := c.Do(context.Background(), "getopenorders", category, NewParams().Set("market", "BTC-LTC"))
			require.NoError(t, err)

			req := ex.last(t)
			assert.Equal(t, testKey, req.Query.Get("apikey"))
			assert.Equal(t, "BTC-LTC", req.Query.Get("market"))

			nonce, err := strconv.ParseInt(req.Query.Get("nonce"), 10, 64)
			require.NoError(t, err)
			assert.InDelta(t, time.Now().UnixMilli(), nonce, float64(time.Minute.Milliseconds()))

			// The caller's params come first, credentials last.
			assert.True(t, strings.HasPrefix(req.URL, ex.URL+mustBasePath(t, category)+"getopenorders?market=BTC-LTC&apikey=test-key&nonce="))
			assert.Equal(t, expectedSignature(testSecret, req.URL), req.Signature)
		})
	}
}

func mustBasePath(t *testing.T, c Category) string {
	t.Helper()
	p, err := c.BasePath()
	require.NoError(t, err)
	return p
}

func TestDo_SignatureFixture(t *testing.T) {
	var captured *http.Request
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		return jsonResponse(okEnvelope), nil
	})}

	c, err := NewClient(testKey, testSecret,
		WithHTTPClient(hc),
		WithClock(func() time.Time { return time.UnixMilli(1500000000000) }),
	)
	require.NoError(t, err)

	_, err = c.Balances(context.Background())
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "https://bittrex.com/api/v1.1/account/getbalances?apikey=test-key&nonce=1500000000000", captured.URL.String())
	assert.Equal(t,
		"22fea7ebe4e0cae754dfe3ba6ceef5f04370915f56e0cb7a11406b1b6d2dde9f00ab41f61892fe2a07a6a3022500ada5fedfc624d8050485ff72b078f756ce51",
		captured.Header.Get("apisign"),
	)
}

func TestDo_DistinctNoncesWithinOneMillisecond(t *testing.T) {
	ex := newFakeExchange(t, okEnvelope)
	fixed := time.UnixMilli(1600000000000)
	c := newTestClient(t, ex.URL, testKey, testSecret, WithClock(func() time.Time { return fixed }))

	ctx := context.Background()
	_, err := c.Balances(ctx)
	require.NoError(t, err)
	first := ex.last(t)

	_, err = c.Balances(ctx)
	require.NoError(t, err)
	second := ex.last(t)

	n1, _ := strconv.ParseInt(first.Query.Get("nonce"), 10, 64)
	n2, _ := strconv.ParseInt(second.Query.Get("nonce"), 10, 64)
	assert.Greater(t, n2, n1)
	assert.NotEqual(t, first.Signature, second.Signature)
}

func TestDo_ConcurrentSignedCalls(t *testing.T) {
	ex := newFakeExchange(t, okEnvelope)
	c := newTestClient(t, ex.URL, testKey, testSecret)

	const calls = 20
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Balances(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ex.mu.Lock()
	defer ex.mu.Unlock()
	require.Len(t, ex.requests, calls)

	seen := make(map[string]bool)
	for _, r := range ex.requests {
		nonce := r.Query.Get("nonce")
		assert.False(t, seen[nonce], "duplicate nonce %s", nonce)
		seen[nonce] = true
		assert.Equal(t, expectedSignature(testSecret, r.URL), r.Signature)
	}
}

func TestDo_CallerMisuse(t *testing.T) {
	ex := newFakeExchange(t, okEnvelope)

	t.Run("unknown category", func(t *testing.T) {
		c := newTestClient(t, ex.URL, testKey, testSecret)
		_, err := c.Do(context.Background(), "getmarkets", Category(42), nil)
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("empty call", func(t *testing.T) {
		c := newTestClient(t, ex.URL, testKey, testSecret)
		_, err := c.Do(context.Background(), "", CategoryPublic, nil)
		assert.ErrorIs(t, err, ErrEmptyCall)
	})

	t.Run("signed call without credentials", func(t *testing.T) {
		c := newTestClient(t, ex.URL, "", "")
		_, err := c.Balances(context.Background())
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	assert.Equal(t, 0, ex.count(), "misuse must not reach the network")
}

func TestDo_APIError(t *testing.T) {
	ex := newFakeExchange(t, `{"success":false,"message":"INVALID_MARKET","result":null}`)
	c := newTestClient(t, ex.URL, "", "")

	result, err := c.Ticker(context.Background(), "BTC-NOPE")
	assert.Nil(t, result)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INVALID_MARKET", apiErr.Message)
	assert.Equal(t, "getticker", apiErr.Call)
	assert.Equal(t, "bittrex getticker: INVALID_MARKET", err.Error())
	assert.True(t, IsAPIError(err, "INVALID_MARKET"))
	assert.True(t, IsAPIError(err, ""))
	assert.False(t, IsAPIError(err, "APIKEY_INVALID"))
}

func TestDo_MalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":  `<html>oops</html>`,
		"truncated": `{"success":true,"result":[{"a"`,
		"empty":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			ex := newFakeExchange(t, body)
			c := newTestClient(t, ex.URL, "", "")

			_, err := c.Markets(context.Background())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDo_StatusError(t *testing.T) {
	ex := newFakeExchange(t, `bad gateway`)
	ex.setStatus(http.StatusBadGateway)
	c := newTestClient(t, ex.URL, "", "")

	_, err := c.Markets(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "getmarkets", statusErr.Call)
	assert.Equal(t, "bad gateway", string(statusErr.Body))
}

func TestDo_TransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		c := newTestClient(t, baseURL, "", "")
		_, err := c.Markets(context.Background())

		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "getmarkets", transportErr.Call)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(okEnvelope))
		}))
		defer server.Close()

		c := newTestClient(t, server.URL, "", "", WithTimeout(20*time.Millisecond))
		_, err := c.Markets(context.Background())

		var transportErr *TransportError
		assert.True(t, errors.As(err, &transportErr))
	})

	t.Run("context cancellation", func(t *testing.T) {
		ex := newFakeExchange(t, okEnvelope)
		c := newTestClient(t, ex.URL, "", "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Markets(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type recordingObserver struct {
	calls atomic.Int32
	last  atomic.Value
}

func (o *recordingObserver) ObserveCall(category Category, call string, elapsed time.Duration, err error) {
	o.calls.Add(1)
	o.last.Store(category.String() + "/" + call)
}

func TestDo_Observer(t *testing.T) {
	ex := newFakeExchange(t, okEnvelope)
	obs := &recordingObserver{}
	c := newTestClient(t, ex.URL, testKey, testSecret, WithObserver(obs))

	_, err := c.OpenOrders(context.Background(), "")
	require.NoError(t, err)
	_, err = c.Do(context.Background(), "x", Category(0), nil)
	require.Error(t, err)

	assert.Equal(t, int32(2), obs.calls.Load())
	assert.Equal(t, "category(0)/x", obs.last.Load())
}

func TestUnwrapEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantResult  string
		wantMessage string
		wantErr     error
	}{
		{
			name:       "list result",
			body:       `{"success": true, "message": "", "result": [{"a":1}]}`,
			wantResult: `[{"a":1}]`,
		},
		{
			name:       "object result",
			body:       `{"success":true,"message":"","result":{"uuid":"e606d53c-8d70-11e3-94b5-425861b86ab6"}}`,
			wantResult: `{"uuid":"e606d53c-8d70-11e3-94b5-425861b86ab6"}`,
		},
		{
			name:       "void success",
			body:       `{"success":true,"message":"","result":null}`,
			wantResult: `null`,
		},
		{
			name:       "empty list success",
			body:       `{"success":true,"message":"","result":[]}`,
			wantResult: `[]`,
		},
		{
			name:       "string success flag",
			body:       `{"success":"true","message":"","result":[1]}`,
			wantResult: `[1]`,
		},
		{
			name:        "failure",
			body:        `{"success":false,"message":"INVALID_MARKET","result":null}`,
			wantMessage: "INVALID_MARKET",
		},
		{
			name:        "failure on http error status",
			status:      http.StatusUnauthorized,
			body:        `{"success":false,"message":"APIKEY_INVALID","result":null}`,
			wantMessage: "APIKEY_INVALID",
		},
		{
			name:       "no success flag, truthy result",
			body:       `{"message":"","result":[{"a":1}]}`,
			wantResult: `[{"a":1}]`,
		},
		{
			name:        "no success flag, falsy result",
			body:        `{"message":"NO_DATA","result":[]}`,
			wantMessage: "NO_DATA",
		},
		{
			name:        "no success flag, zero result",
			body:        `{"message":"ZERO","result":0}`,
			wantMessage: "ZERO",
		},
		{
			name:    "success without result",
			body:    `{"success":true,"message":""}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "failure without message",
			body:    `{"success":false,"result":null}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "neither result nor message",
			body:    `{"foo":"bar"}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "bad success flag",
			body:    `{"success":"maybe","message":"","result":[]}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "array body",
			body:    `[1,2,3]`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "null body",
			body:    `null`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "non-string message",
			body:    `{"success":false,"message":7}`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			if status == 0 {
				status = http.StatusOK
			}

			result, err := unwrapEnvelope(status, []byte(tt.body))

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMessage != "":
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr), "got %v", err)
				assert.Equal(t, tt.wantMessage, apiErr.Message)
				assert.Equal(t, status, apiErr.StatusCode)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, string(result))
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	for raw, want := range map[string]bool{
		`null`:      false,
		`false`:     false,
		`""`:        false,
		`[]`:        false,
		`{}`:        false,
		`0`:         false,
		`0.0`:       false,
		` [ ] `:     false,
		`true`:      true,
		`"x"`:       true,
		`[0]`:       true,
		`{"a":1}`:   true,
		`-1`:        true,
		`0.0001`:    true,
	} {
		assert.Equal(t, want, truthy(json.RawMessage(raw)), raw)
	}
}
