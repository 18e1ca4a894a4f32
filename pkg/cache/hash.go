package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a "<family>:<sha256>" key from stage inputs. The
// family prefix (doc, layout, artifact) keeps the key spaces disjoint;
// the hash covers every option that can change the stage's output.
func hashKey(family string, parts ...any) string {
	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(raw)
	return family + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the full hex SHA-256 of data. Content hashes chain the
// pipeline stages: the source hash keys the document, the document
// hash keys the layout, and the layout hash keys the artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
