package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/visionspec/visionspec/pkg/catalog"
)

// hashKey builds "prefix:sha256(json(parts))". Floats are encoded by
// encoding/json, so 2.5 and 2.50 hash the same.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// CatalogHash identifies the contents of cat, so keys built with it change
// when the catalog is edited.
func CatalogHash(cat *catalog.Catalog) string {
	data, _ := json.Marshal(cat.Entries())
	return Hash(data)
}

// Hash computes the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
