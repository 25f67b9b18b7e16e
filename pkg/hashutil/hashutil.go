package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// ParseHashAlgo maps a user supplied name (case-insensitive) to a supported HashAlgo.
func ParseHashAlgo(name string) (HashAlgo, error) {
	switch algo := HashAlgo(strings.ToLower(strings.TrimSpace(name))); algo {
	case HashAlgoSHA256, HashAlgoBLAKE3:
		return algo, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:]), nil
	case HashAlgoBLAKE3:
		hash := blake3.Sum256(data)
		return hex.EncodeToString(hash[:]), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// HashString is HashBytes for text content such as a cached response body.
func HashString(text string, algo HashAlgo) (string, error) {
	return HashBytes([]byte(text), algo)
}
