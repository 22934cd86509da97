// Package model defines shared data types used across the recorder.
//
// Conventions:
//   - Prices and volumes: decimal.Decimal, never float64
//   - Timestamps: int64 microseconds since Unix epoch
//   - Exchange timestamps arrive without a zone and are treated as UTC
package model
