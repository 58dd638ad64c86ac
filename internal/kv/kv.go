// Package kv provides the key-value persistence backends for board state.
//
// The board keeps exactly two records: the serialized idea collection and
// the current-user slot. Backends only need string get/set; callers own
// serialization and treat malformed payloads as empty state.
package kv

import "context"

// Keys for the two persisted records.
const (
	KeyIdeas = "ciIdeas"
	KeyUser  = "ciUser"
)

// Store is the minimal contract every backend satisfies. Get reports
// found=false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}
