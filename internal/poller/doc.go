// Package poller implements the market summary poller.
//
// Every interval the poller fetches getmarketsummary for each configured
// market with bounded concurrency, or a single getmarketsummaries call when no
// markets are configured, and hands each summary to a SnapshotHandler.
// A failed market is logged and counted; it never aborts the cycle.
package poller
