package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Key kinds produced by [DefaultKeyer].
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// digestLen is the length of a hex SHA-256 digest.
const digestLen = 2 * sha256.Size

// hashKey returns kind + ":" + the digest of the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. Item sets and layouts are
// hashed in their JSON form before they become part of a key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// KeyKind returns the kind of a key built by [DefaultKeyer], ignoring a
// prefix added by [ScopedKeyer]. ok is false unless key ends in
// "<kind>:<digest>".
func KeyKind(key string) (kind string, ok bool) {
	if len(key) < digestLen+1 {
		return "", false
	}
	digest := key[len(key)-digestLen:]
	rest, found := strings.CutSuffix(key[:len(key)-digestLen], ":")
	if !found || !isDigest(digest) {
		return "", false
	}
	for _, kind := range []string{KindLayout, KindArtifact} {
		if strings.HasSuffix(rest, kind) {
			return kind, true
		}
	}
	return "", false
}

func isDigest(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
