package db

// Verification is the local index entry for a completed pipeline run. It is
// created once after ledger anchoring succeeds and never updated.
type Verification struct {
	Id             int64
	OwnerID        string `gorm:"NOT NULL;index:idx_verification_owner"`
	ImageHash      string `gorm:"NOT NULL;uniqueIndex:idx_verification_image_hash;size:64"`
	Cid            string
	CidURL         string
	TxHash         string `gorm:"index:idx_verification_tx_hash;size:66"`
	VerificationID string `gorm:"index:idx_verification_vid;size:66"`
	Latitude       float64
	Longitude      float64
	Analysis       string `gorm:"type:text"` // serialized assessment, as anchored
	Private        bool
	CreatedTime    int64 `gorm:"NOT NULL"`
}

func (*Verification) TableName() string {
	return "verification"
}
