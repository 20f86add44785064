// Package storage is the durable key/value store behind the operator session.
//
// Values are opaque bytes. Get returns (nil, nil) for an absent key so that
// callers can tell "not stored" apart from a read failure.
package storage

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("store closed")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	// Delete removes the keys in one step; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
