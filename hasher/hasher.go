package hasher

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

var ErrEmptyInput = errors.New("empty image payload")

// dataURLPrefix matches the transport envelope browsers wrap captures in,
// e.g. "data:image/jpeg;base64,".
var dataURLPrefix = regexp.MustCompile(`^data:[\w.+-]+/[\w.+-]+;base64,`)

// Canonicalize strips a data-URL envelope and decodes the base64 payload so
// the hash is always over image bytes, never over transport encoding. Input
// without an envelope is treated as raw image bytes and returned unchanged.
func Canonicalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	loc := dataURLPrefix.FindIndex(data)
	if loc == nil {
		return data, nil
	}
	payload := data[loc[1]:]
	decoded, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %v", err)
	}
	if len(decoded) == 0 {
		return nil, ErrEmptyInput
	}
	return decoded, nil
}

// Sum digests already-canonical bytes into 64 lowercase hex characters.
func Sum(canonical []byte) string {
	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:])
}

// Hash computes the SHA-256 content hash of the canonical image bytes.
func Hash(data []byte) (string, error) {
	canonical, err := Canonicalize(data)
	if err != nil {
		return "", err
	}
	return Sum(canonical), nil
}
