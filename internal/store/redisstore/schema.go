package redisstore

import "fmt"

// Key patterns. Every key is namespaced so several cliengo installations can
// share one Redis server.
//
//	cliengo:{ns}:owner:{owner}:client:{id}   hash, one record
//	cliengo:{ns}:owner:{owner}:clients       zset of ids scored by created_at_ms
//	cliengo:{ns}:profile:{owner}             hash, the owner's profile

// ClientKey returns the hash key of one record.
func ClientKey(namespace, ownerID, id string) string {
	return fmt.Sprintf("cliengo:%s:owner:%s:client:%s", namespace, ownerID, id)
}

// ClientIndexKey returns the recency index of an owner's records.
func ClientIndexKey(namespace, ownerID string) string {
	return fmt.Sprintf("cliengo:%s:owner:%s:clients", namespace, ownerID)
}

// ProfileKey returns the hash key of an owner's profile.
func ProfileKey(namespace, ownerID string) string {
	return fmt.Sprintf("cliengo:%s:profile:%s", namespace, ownerID)
}
