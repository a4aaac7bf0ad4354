package models

import (
	"encoding/json"
)

type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SubmitVerificationRequest struct {
	OwnerID   string  `json:"owner_id" binding:"required"`
	Image     string  `json:"image" binding:"required"` // base64, possibly data-URL wrapped
	ImageHash string  `json:"image_hash"`               // optional caller-computed hash
	Location  *LatLng `json:"location"`
	IsPrivate bool    `json:"is_private"`
}

type VerificationView struct {
	ID               int64           `json:"id"`
	OwnerID          string          `json:"owner_id,omitempty"`
	ImageHash        string          `json:"image_hash"`
	Cid              string          `json:"cid,omitempty"`
	CidURL           string          `json:"cid_url,omitempty"`
	TxHash           string          `json:"tx_hash,omitempty"`
	VerificationID   string          `json:"verification_id,omitempty"`
	BlockExplorerURL string          `json:"block_explorer_url,omitempty"`
	Location         *LatLng         `json:"location,omitempty"`
	Analysis         json.RawMessage `json:"ai_analysis,omitempty"`
	IsPrivate        bool            `json:"is_private"`
	Timestamp        int64           `json:"timestamp"`
}

type SubmitVerificationResponse struct {
	Success      bool              `json:"success"`
	Verification *VerificationView `json:"verification"`
}

type VerifyHashRequest struct {
	ImageHash string `json:"image_hash" binding:"required"`
}

type VerifyHashResponse struct {
	Exists         bool              `json:"exists"`
	OnLedger       bool              `json:"on_ledger"`
	InIndex        bool              `json:"in_index"`
	VerificationID string            `json:"verification_id,omitempty"`
	Verification   *VerificationView `json:"verification,omitempty"`
}

type ListVerificationsResponse struct {
	Success       bool                `json:"success"`
	Verifications []*VerificationView `json:"verifications"`
}
