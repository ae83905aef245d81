package valkey

import "github.com/redis/rueidis"

// NewStoreForTest wraps a (mock) rueidis client. Keys live under
// domain.KeyPrefix.
func NewStoreForTest(c rueidis.Client) *Store {
	return newStore(c, "")
}
