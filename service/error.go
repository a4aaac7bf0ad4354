package service

import (
	"fmt"
)

// Verify Interface Compliance
var _ error = (*Err)(nil)

// Err defines service errors. Codes group into validation (400xx, correct
// the input before retrying), not-found (404xx) and anchoring/internal
// (500xx, safe to resubmit identical bytes since no partial state persists).
type Err struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}

func (e Err) Enrich(message string) Err {
	return Err{
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, message),
	}
}

func (e Err) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var (
	ErrInvalidRequest = Err{40001, "invalid request"}
	ErrInvalidImage   = Err{40002, "invalid image payload"}
	ErrInvalidHash    = Err{40003, "invalid image hash"}
	ErrHashMismatch   = Err{40004, "image hash mismatch, hash does not match image data"}

	ErrVerificationNotFound = Err{40401, "verification not found"}

	InternalErr            = Err{50001, "internal error"}
	ErrLedgerNotConfigured = Err{50002, "ledger not configured, anchoring unavailable"}
	ErrAnchoringFailed     = Err{50003, "failed to create ledger verification"}
)

// HTTPStatus maps a service error code to the response status.
func HTTPStatus(code int64) int {
	switch {
	case code >= 40000 && code < 40400:
		return 400
	case code >= 40400 && code < 40500:
		return 404
	default:
		return 500
	}
}
