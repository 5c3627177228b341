package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// QueryKey generates a cache key for a Salesforce query response.
// The instance URL is included so two orgs never share entries.
func QueryKey(instanceURL, soql string) string {
	return hashKey("query", instanceURL, soql)
}

// ArtifactKey generates a cache key for a rendered artifact.
// recordsHash is the content hash of the fetched records; format, size,
// and palette all change the output bytes, so they are part of the key.
func ArtifactKey(recordsHash, format, size string, palette []string) string {
	return hashKey("artifact", recordsHash, format, size, palette)
}
