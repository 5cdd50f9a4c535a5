package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return newStore(c, "")
}

// NewValkeyStoreForTest creates a valkey-search flavored Store (test-only).
func NewValkeyStoreForTest(c rueidis.Client) *Store {
	s := newStore(c, "")
	s.valkey = true
	return s
}
