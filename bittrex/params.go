package bittrex

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Params is an ordered set of query parameters. Keys are encoded in the
// order they were first set.
type Params struct {
	keys   []string
	values []string
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{}
}

// Set assigns value to key, keeping the key's original position if it was
// already present. Supported values are strings, integers, floats, bools,
// decimal.Decimal, uuid.UUID and fmt.Stringer.
func (p *Params) Set(key string, value any) *Params {
	v := formatValue(value)
	for i, k := range p.keys {
		if k == key {
			p.values[i] = v
			return p
		}
	}
	p.keys = append(p.keys, key)
	p.values = append(p.values, v)
	return p
}

// SetOptional sets key only when value is non-empty.
func (p *Params) SetOptional(key, value string) *Params {
	if value == "" {
		return p
	}
	return p.Set(key, value)
}

// Get returns the value for key.
func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for i, k := range p.keys {
		if k == key {
			return p.values[i], true
		}
	}
	return "", false
}

// Len returns the number of parameters. A nil *Params is empty.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Encode returns the percent-encoded query string without a leading '?'.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[i]))
	}
	return b.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case decimal.Decimal:
		return v.String()
	case uuid.UUID:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
