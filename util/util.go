package util

import (
	"fmt"
	"math"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// HashHexLen is the length of a content hash in hex characters (32 bytes).
	HashHexLen = 64

	// CoordinateScale is the fixed-point scale for geolocation on the ledger,
	// 1e-6 degree resolution.
	CoordinateScale = 1_000_000
)

// NormalizeHexHash lowercases a hash string and strips a 0x prefix if present.
// It returns an error unless the remainder is exactly 64 hex characters;
// malformed hashes are rejected before any network call is attempted.
func NormalizeHexHash(hash string) (string, error) {
	h := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hash)), "0x")
	if len(h) != HashHexLen {
		return "", fmt.Errorf("invalid hash length: expected %d hex characters, got %d", HashHexLen, len(h))
	}
	if _, err := hexutil.Decode("0x" + h); err != nil {
		return "", fmt.Errorf("invalid hash encoding: %v", err)
	}
	return h, nil
}

// HashToBytes32 decodes a normalized 64-hex hash into a fixed 32-byte array.
func HashToBytes32(hash string) ([32]byte, error) {
	var out [32]byte
	h, err := NormalizeHexHash(hash)
	if err != nil {
		return out, err
	}
	bz, err := hexutil.Decode("0x" + h)
	if err != nil {
		return out, err
	}
	copy(out[:], bz)
	return out, nil
}

// EncodeCoordinate converts decimal degrees to the ledger's signed fixed-point
// representation, rounding half away from zero.
func EncodeCoordinate(deg float64) int64 {
	return int64(math.Round(deg * CoordinateScale))
}

// DecodeCoordinate recovers decimal degrees from the fixed-point form.
func DecodeCoordinate(v int64) float64 {
	return float64(v) / CoordinateScale
}
