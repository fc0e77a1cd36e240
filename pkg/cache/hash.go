package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. The runner uses it on the canonical
// wire encoding of a circuit, so equal circuits share artifacts whatever
// their origin.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns prefix + ":" + Hash of the JSON array of parts. Struct
// fields marshal in declaration order, so the key is stable across runs.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// unreachable for the option structs used as parts
		return prefix + ":unhashable"
	}
	return prefix + ":" + Hash(data)
}
