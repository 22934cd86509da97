package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Exchange timestamp layouts, most specific first.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Timestamp is an exchange timestamp such as "2014-07-09T07:19:30.15".
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses an exchange timestamp as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parse timestamp %q", s)
}

// UnmarshalJSON accepts a quoted exchange timestamp or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Micro returns microseconds since epoch, 0 for the zero timestamp.
func (t Timestamp) Micro() int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

// MarketSummary is one entry of the getmarketsummary/getmarketsummaries result.
type MarketSummary struct {
	MarketName     string          `json:"MarketName"` // e.g. "BTC-LTC"
	High           decimal.Decimal `json:"High"`
	Low            decimal.Decimal `json:"Low"`
	Volume         decimal.Decimal `json:"Volume"`
	Last           decimal.Decimal `json:"Last"`
	BaseVolume     decimal.Decimal `json:"BaseVolume"`
	TimeStamp      Timestamp       `json:"TimeStamp"`
	Bid            decimal.Decimal `json:"Bid"`
	Ask            decimal.Decimal `json:"Ask"`
	OpenBuyOrders  int             `json:"OpenBuyOrders"`
	OpenSellOrders int             `json:"OpenSellOrders"`
	PrevDay        decimal.Decimal `json:"PrevDay"`
	Created        Timestamp       `json:"Created"`
}

// Spread returns Ask - Bid.
func (m MarketSummary) Spread() decimal.Decimal {
	return m.Ask.Sub(m.Bid)
}

// SummarySnapshot is a market summary as observed by the poller.
type SummarySnapshot struct {
	Summary    MarketSummary
	ExchangeTS int64 // Summary TimeStamp (µs since epoch)
	ReceivedAt int64 // Poller receive time (µs since epoch)
}

// NewSummarySnapshot stamps a summary with its receive time.
func NewSummarySnapshot(s MarketSummary, receivedAt time.Time) SummarySnapshot {
	return SummarySnapshot{
		Summary:    s,
		ExchangeTS: s.TimeStamp.Micro(),
		ReceivedAt: receivedAt.UnixMicro(),
	}
}
