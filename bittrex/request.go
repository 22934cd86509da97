package bittrex

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/rickgao/bittrex-client/internal/auth"
)

// Do dispatches a single call and unwraps the response envelope.
//
// The URL is the base URL, the category's base path, the call name and the
// encoded params. Market and Account calls additionally get the apikey and
// nonce parameters and an apisign header. Exactly one GET is issued.
func (c *Client) Do(ctx context.Context, call string, category Category, params *Params) (json.RawMessage, error) {
	start := time.Now()
	result, err := c.do(ctx, call, category, params)
	if c.observer != nil {
		c.observer.ObserveCall(category, call, time.Since(start), err)
	}
	return result, err
}

// Call dispatches the endpoint described by e.
func (c *Client) Call(ctx context.Context, e Endpoint, params *Params) (json.RawMessage, error) {
	return c.Do(ctx, e.Call, e.Category, params)
}

func (c *Client) do(ctx context.Context, call string, category Category, params *Params) (json.RawMessage, error) {
	if call == "" {
		return nil, ErrEmptyCall
	}
	basePath, err := category.BasePath()
	if err != nil {
		return nil, err
	}

	query := params.Encode()
	var signature string

	if category.Authenticated() {
		if c.signer == nil {
			return nil, errors.Wrapf(ErrMissingCredentials, "%s %s", category, call)
		}
		creds := NewParams().
			Set(auth.KeyParam, c.signer.Key()).
			Set(auth.NonceParam, c.nonce.Next())
		query = joinQuery(query, creds.Encode())
	}

	fullURL := c.baseURL + basePath + call
	if query != "" {
		fullURL += "?" + query
	}

	req := c.rest.R().SetContext(ctx)
	if category.Authenticated() {
		signature, err = c.signer.Sign(fullURL)
		if err != nil {
			return nil, errors.Wrapf(err, "sign %s", call)
		}
		req.SetHeader(auth.SignatureHeader, signature)
	}

	c.logger.Debug("bittrex request",
		"category", category.String(),
		"call", call,
		"params", params.Encode(),
	)

	resp, err := req.Get(fullURL)
	if err != nil {
		return nil, &TransportError{Call: call, Err: err}
	}

	result, err := unwrapEnvelope(resp.StatusCode(), resp.Body())
	if err != nil {
		switch e := err.(type) {
		case *APIError:
			e.Call = call
		case *StatusError:
			e.Call = call
		default:
			err = errors.Wrapf(err, "%s", call)
		}
		c.logger.Debug("bittrex call failed",
			"call", call,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"error", err,
		)
		return nil, err
	}

	return result, nil
}

func joinQuery(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "&" + b
	}
}

// unwrapEnvelope interprets a {success, message, result} body.
//
// When success is present it decides the outcome: true returns result
// verbatim (JSON null for void calls), false returns an *APIError. Without
// success, a truthy result is returned and otherwise the message.
func unwrapEnvelope(status int, body []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if status < 200 || status >= 300 {
			return nil, &StatusError{StatusCode: status, Body: body}
		}
		return nil, errors.Wrapf(ErrMalformedResponse, "decode envelope: %v", err)
	}

	result, hasResult := fields["result"]

	var message string
	rawMessage, hasMessage := fields["message"]
	if hasMessage {
		if err := json.Unmarshal(rawMessage, &message); err != nil {
			return nil, errors.Wrapf(ErrMalformedResponse, "decode message: %v", err)
		}
	}

	if rawSuccess, ok := fields["success"]; ok {
		success, err := parseSuccess(rawSuccess)
		if err != nil {
			return nil, err
		}
		if success {
			if !hasResult {
				return nil, errors.Wrap(ErrMalformedResponse, "success envelope without result")
			}
			return result, nil
		}
		if !hasMessage {
			return nil, errors.Wrap(ErrMalformedResponse, "failure envelope without message")
		}
		return nil, &APIError{StatusCode: status, Message: message}
	}

	if hasResult && truthy(result) {
		return result, nil
	}
	if hasMessage {
		return nil, &APIError{StatusCode: status, Message: message}
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{StatusCode: status, Body: body}
	}
	return nil, errors.Wrap(ErrMalformedResponse, "envelope has neither result nor message")
}

// parseSuccess accepts a JSON bool or a quoted "true"/"false".
func parseSuccess(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, nil
		}
	}
	return false, errors.Wrapf(ErrMalformedResponse, "success is not a boolean: %s", raw)
}

// truthy treats null, false, zero, "" and empty arrays or objects as unset.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", `""`:
		return false
	}
	switch v[0] {
	case '[':
		var arr []json.RawMessage
		return json.Unmarshal(v, &arr) != nil || len(arr) > 0
	case '{':
		var obj map[string]json.RawMessage
		return json.Unmarshal(v, &obj) != nil || len(obj) > 0
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(v), 64)
		return err != nil || f != 0
	}
	return true
}
