// Package auth provides Bittrex API authentication using HMAC-SHA512 signatures.
//
// Authenticated requests carry the API key and a nonce in the query string and
// an "apisign" header holding the hex HMAC-SHA512 of the complete request URL,
// keyed by the API secret. Both the secret and the URL are hashed as
// ISO-8859-1 bytes.
package auth

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// SignatureHeader is the request header carrying the URL signature.
const SignatureHeader = "apisign"

// Query parameter names added to authenticated requests.
const (
	KeyParam   = "apikey"
	NonceParam = "nonce"
)

// ErrNoCredentials is returned when an authenticated call is attempted
// without both an API key and secret.
var ErrNoCredentials = errors.New("api key and secret are required")

// Credentials holds the API key and secret for signing requests.
type Credentials struct {
	Key    string // API key from the Bittrex settings page
	Secret string // API secret paired with Key
}

// LoadCredentials validates a key/secret pair. Both must be set, or neither
// for public-only usage, in which case nil is returned.
func LoadCredentials(key, secret string) (*Credentials, error) {
	switch {
	case key == "" && secret == "":
		return nil, nil
	case key == "":
		return nil, fmt.Errorf("API key is required when a secret is set")
	case secret == "":
		return nil, fmt.Errorf("API secret is required when a key is set")
	}
	return &Credentials{Key: key, Secret: secret}, nil
}

// Signer computes request signatures for one credential pair.
// A Signer is immutable and safe for concurrent use.
type Signer struct {
	key    string
	secret []byte
}

// NewSigner creates a Signer. The secret must be representable in ISO-8859-1.
func NewSigner(creds *Credentials) (*Signer, error) {
	if creds == nil || creds.Key == "" || creds.Secret == "" {
		return nil, ErrNoCredentials
	}

	secret, err := latin1(creds.Secret)
	if err != nil {
		return nil, fmt.Errorf("encode secret: %w", err)
	}

	return &Signer{key: creds.Key, secret: secret}, nil
}

// Key returns the API key sent as the apikey query parameter.
func (s *Signer) Key() string {
	return s.key
}

// Sign returns the lowercase hex HMAC-SHA512 of rawURL keyed by the secret.
// rawURL must already contain the apikey and nonce parameters.
func (s *Signer) Sign(rawURL string) (string, error) {
	msg, err := latin1(rawURL)
	if err != nil {
		return "", fmt.Errorf("encode url: %w", err)
	}

	mac := hmac.New(sha512.New, s.secret)
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// latin1 encodes s as ISO-8859-1, failing on runes above U+00FF.
func latin1(s string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
}
