package entity

import (
	"encoding/json"
	"time"
)

// RawCapture is the ephemeral pipeline input. It is consumed once by the
// orchestrator and never persisted as such.
type RawCapture struct {
	OwnerID      string
	Image        []byte // raw bytes, possibly data-URL wrapped
	SuppliedHash string // optional caller-computed hash for client-side verification
	Location     *Location
	Private      bool
}

type Location struct {
	Lat float64
	Lng float64
}

// ContentLocator points at the off-chain content-addressed copy. Present only
// when the store upload succeeded; losing it does not invalidate a
// verification.
type ContentLocator struct {
	CID string
	URL string
}

// Assessment is the normalized authenticity estimate. Raw keeps the upstream
// payload for audit only.
type Assessment struct {
	Description string          `json:"description"`
	Probability float64         `json:"probability"`
	IsAuthentic bool            `json:"isAuthentic"`
	AnalyzedAt  time.Time       `json:"analyzedAt"`
	Raw         json.RawMessage `json:"-"`
}

// DefaultAssessment is the conservative fallback used when the classifier is
// unreachable or unconfigured: non-synthetic with low confidence.
func DefaultAssessment(now time.Time) *Assessment {
	return &Assessment{
		Description: "AI analysis unavailable. Image processed successfully.",
		Probability: 0.1,
		IsAuthentic: true,
		AnalyzedAt:  now,
	}
}

// AnchorReceipt is the outcome of a confirmed anchoring transaction.
type AnchorReceipt struct {
	VerificationID   string
	TxHash           string
	BlockExplorerURL string
}

// LedgerAnchor is the confirmed on-chain record. Owned by the ledger, never
// mutated locally.
type LedgerAnchor struct {
	VerificationID   string
	TxHash           string
	ImageHash        string
	CID              string
	Latitude         int64 // degrees scaled by 1e6
	Longitude        int64
	Timestamp        int64
	Verifier         string
	Analysis         string // serialized Assessment as anchored
	BlockExplorerURL string
}
