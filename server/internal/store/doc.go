// Package store manages the in-memory impact results and optional SQLite
// persistence. It provides a thread-safe result store with TTL eviction
// and time-range query support for historical data.
package store
