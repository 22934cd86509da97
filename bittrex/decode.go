package bittrex

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Decode unmarshals a call's result into T. It is shaped to wrap a call
// directly:
//
//	summaries, err := bittrex.Decode[[]model.MarketSummary](c.MarketSummaries(ctx))
func Decode[T any](raw json.RawMessage, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrap(err, "decode result")
	}
	return v, nil
}
