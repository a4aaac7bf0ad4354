package db

import (
	"gorm.io/gorm"
)

type VerificationDao interface {
	GetVerificationByHash(imageHash string) (*Verification, error)
	GetVerificationByID(id int64) (*Verification, error)
	GetVerificationsByOwner(ownerID string) ([]*Verification, error)
	CreateVerification(v *Verification) error
}

type VerificationSvcDB struct {
	db *gorm.DB
}

func NewVerificationSvcDB(db *gorm.DB) VerificationDao {
	return &VerificationSvcDB{
		db,
	}
}

// GetVerificationByHash returns nil without error when no record exists for
// the hash.
func (d *VerificationSvcDB) GetVerificationByHash(imageHash string) (*Verification, error) {
	verification := Verification{}
	err := d.db.Model(Verification{}).Where("image_hash = ?", imageHash).Take(&verification).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &verification, nil
}

func (d *VerificationSvcDB) GetVerificationByID(id int64) (*Verification, error) {
	verification := Verification{}
	err := d.db.Model(Verification{}).Where("id = ?", id).Take(&verification).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &verification, nil
}

// GetVerificationsByOwner returns the owner's public records, newest first.
func (d *VerificationSvcDB) GetVerificationsByOwner(ownerID string) ([]*Verification, error) {
	verifications := make([]*Verification, 0)
	err := d.db.Where("owner_id = ? and private = ?", ownerID, false).
		Order("created_time desc").Find(&verifications).Error
	if err != nil {
		return nil, err
	}
	return verifications, nil
}

// CreateVerification inserts the record; the unique index on image_hash is
// the only serialization point across concurrent pipeline runs. A duplicate
// is reported as ErrDuplicateHash.
func (d *VerificationSvcDB) CreateVerification(v *Verification) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		err := dbTx.Create(v).Error
		if IsDuplicateEntryErr(err) {
			return ErrDuplicateHash
		}
		return err
	})
}

func AutoMigrateDB(db *gorm.DB) {
	if err := db.AutoMigrate(&Verification{}); err != nil {
		panic(err)
	}
}
