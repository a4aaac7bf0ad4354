package types

import (
	"fmt"
)

// GetImageObjectName builds the object name an uploaded capture is stored
// under in the content store.
func GetImageObjectName(timestampMs int64) string {
	return fmt.Sprintf("truthlens-%d.jpg", timestampMs)
}

// GetLookupCacheKey keys lookup results in the local cache.
func GetLookupCacheKey(imageHash string) string {
	return "lookup_" + imageHash
}
