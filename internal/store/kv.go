// Package store holds the key-value collaborator behind the ladder: a small KV
// contract, Redis and in-memory backends, and typed record helpers on top.
package store

import (
	"context"
	"errors"
	"slices"
)

var ErrEmptyKey = errors.New("store: empty key")

// Entry is one key/value write inside a batch.
type Entry struct {
	Key   string
	Value []byte
}

// KV is the storage contract. Put applies every entry of a call atomically:
// either all of them become visible or none do.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, entries ...Entry) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

func validate(entries []Entry) error {
	for _, e := range entries {
		if e.Key == "" {
			return ErrEmptyKey
		}
	}
	return nil
}

// uniqueKeys sorts keys and drops repeats. SCAN은 rehash 중 같은 키를 두 번 돌려줄 수 있음.
func uniqueKeys(keys []string) []string {
	slices.Sort(keys)
	return slices.Compact(keys)
}
