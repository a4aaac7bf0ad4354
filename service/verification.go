package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/truthlens/proof-hub/cache"
	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/db"
	"github.com/truthlens/proof-hub/entity"
	"github.com/truthlens/proof-hub/hasher"
	"github.com/truthlens/proof-hub/logging"
	"github.com/truthlens/proof-hub/metrics"
	"github.com/truthlens/proof-hub/types"
	"github.com/truthlens/proof-hub/util"
)

// LedgerAnchor is the mandatory anchoring surface. A failure here aborts the
// pipeline.
type LedgerAnchor interface {
	Anchor(ctx context.Context, imageHash, cid string, lat, lng int64, analysis string) (*entity.AnchorReceipt, error)
	Lookup(ctx context.Context, imageHash string) (bool, string, error)
	Fetch(ctx context.Context, verificationID string) (*entity.LedgerAnchor, error)
}

// ContentStore and Classifier are best-effort enrichment surfaces; their
// failures degrade the record but never abort the pipeline.
type ContentStore interface {
	Store(ctx context.Context, data []byte) (*entity.ContentLocator, error)
}

type Classifier interface {
	Classify(ctx context.Context, data []byte) (*entity.Assessment, error)
}

type Verification interface {
	Submit(ctx context.Context, capture *entity.RawCapture) (*db.Verification, error)
	VerifyHash(ctx context.Context, imageHash string) (*LookupResult, error)
	GetVerification(ctx context.Context, id int64) (*db.Verification, error)
	GetVerificationsByOwner(ctx context.Context, ownerID string) ([]*db.Verification, error)
}

// LookupResult merges ledger truth with the local index. OnLedger and InIndex
// are reported separately so a caller can detect divergence (the index write
// failed after a successful anchor).
type LookupResult struct {
	Exists         bool
	OnLedger       bool
	InIndex        bool
	VerificationID string
	Verification   *db.Verification
}

type VerificationService struct {
	dao          db.VerificationDao
	anchor       LedgerAnchor
	store        ContentStore
	classifier   Classifier
	cacheService cache.Cache
	config       *config.Config
}

func NewVerificationService(dao db.VerificationDao, anchor LedgerAnchor, store ContentStore,
	classifier Classifier, cacheService cache.Cache, cfg *config.Config) Verification {
	return &VerificationService{
		dao:          dao,
		anchor:       anchor,
		store:        store,
		classifier:   classifier,
		cacheService: cacheService,
		config:       cfg,
	}
}

// Submit runs the verification pipeline: hash, enrich concurrently, anchor,
// persist. Anchoring always happens before local persistence; local
// persistence never happens without a confirmed anchor.
func (s *VerificationService) Submit(ctx context.Context, capture *entity.RawCapture) (*db.Verification, error) {
	metrics.VerificationSubmittedCounter.Inc()

	canonical, err := hasher.Canonicalize(capture.Image)
	if err != nil {
		return nil, ErrInvalidImage.Enrich(err.Error())
	}
	imageHash := hasher.Sum(canonical)

	if capture.SuppliedHash != "" {
		supplied, err := util.NormalizeHexHash(capture.SuppliedHash)
		if err != nil {
			return nil, ErrInvalidHash.Enrich(err.Error())
		}
		if supplied != imageHash {
			return nil, ErrHashMismatch
		}
	}

	// duplicate submissions of identical bytes return the existing record
	// instead of anchoring the same content twice
	if existing, err := s.dao.GetVerificationByHash(imageHash); err != nil {
		return nil, InternalErr.Enrich(err.Error())
	} else if existing != nil {
		logging.Logger.Infof("verification already exists for hash=%s, returning existing record id=%d", imageHash, existing.Id)
		return existing, nil
	}

	if s.anchor == nil {
		return nil, ErrLedgerNotConfigured
	}

	locator, assessment := s.enrich(ctx, canonical, imageHash)

	analysisBz, err := json.Marshal(assessment)
	if err != nil {
		return nil, InternalErr.Enrich(err.Error())
	}
	analysis := string(analysisBz)

	var lat, lng int64
	if capture.Location != nil {
		lat = util.EncodeCoordinate(capture.Location.Lat)
		lng = util.EncodeCoordinate(capture.Location.Lng)
	}
	cid := ""
	cidURL := ""
	if locator != nil {
		cid = locator.CID
		cidURL = locator.URL
	}

	// the anchor and persist tail runs on a detached context: once submitted,
	// an anchoring transaction must not be abandoned by a caller disconnect,
	// or the ledger entry would exist with no local record
	anchorCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.config.LedgerConfig.ConfirmTimeoutSeconds())*time.Second)
	defer cancel()

	receipt, err := s.anchor.Anchor(anchorCtx, imageHash, cid, lat, lng, analysis)
	if err != nil {
		metrics.AnchoringFailureCounter.Inc()
		logging.Logger.Errorf("ledger anchoring failed, hash=%s, err=%s", imageHash, err.Error())
		return nil, ErrAnchoringFailed.Enrich(err.Error())
	}
	logging.Logger.Infof("anchored verification, hash=%s, verification_id=%s, tx=%s",
		imageHash, receipt.VerificationID, receipt.TxHash)

	verification := &db.Verification{
		OwnerID:        capture.OwnerID,
		ImageHash:      imageHash,
		Cid:            cid,
		CidURL:         cidURL,
		TxHash:         receipt.TxHash,
		VerificationID: receipt.VerificationID,
		Analysis:       analysis,
		Private:        capture.Private,
		CreatedTime:    time.Now().Unix(),
	}
	if capture.Location != nil {
		verification.Latitude = capture.Location.Lat
		verification.Longitude = capture.Location.Lng
	}

	if err = s.dao.CreateVerification(verification); err != nil {
		if err == db.ErrDuplicateHash {
			existing, getErr := s.dao.GetVerificationByHash(imageHash)
			if getErr == nil && existing != nil {
				logging.Logger.Infof("concurrent duplicate submission for hash=%s, returning existing record id=%d", imageHash, existing.Id)
				return existing, nil
			}
		}
		// the anchor exists on the ledger but the index write failed; the
		// divergence is observable on the next lookup
		logging.Logger.Errorf("failed to persist verification after anchoring, hash=%s, tx=%s, err=%s",
			imageHash, receipt.TxHash, err.Error())
		return nil, InternalErr.Enrich(err.Error())
	}

	metrics.VerificationAnchoredCounter.Inc()
	return verification, nil
}

// enrich runs the content-store upload and the classifier call concurrently.
// Both are bounded by their own timeouts and replaced by documented defaults
// on failure.
func (s *VerificationService) enrich(ctx context.Context, canonical []byte, imageHash string) (*entity.ContentLocator, *entity.Assessment) {
	var (
		locator    *entity.ContentLocator
		assessment *entity.Assessment
	)
	wg := &sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		storeCtx, cancel := context.WithTimeout(ctx,
			time.Duration(s.config.StoreConfig.TimeoutSeconds())*time.Second)
		defer cancel()
		loc, err := s.store.Store(storeCtx, canonical)
		if err != nil {
			metrics.StoreUploadFailureCounter.Inc()
			logging.Logger.Errorf("content store upload failed, hash=%s, err=%s", imageHash, err.Error())
			return
		}
		logging.Logger.Infof("uploaded capture to content store, hash=%s, cid=%s", imageHash, loc.CID)
		locator = loc
	}()
	go func() {
		defer wg.Done()
		classifyCtx, cancel := context.WithTimeout(ctx,
			time.Duration(s.config.ClassifierConfig.TimeoutSeconds())*time.Second)
		defer cancel()
		a, err := s.classifier.Classify(classifyCtx, canonical)
		if err != nil {
			metrics.ClassifierFallbackCounter.Inc()
			logging.Logger.Errorf("classifier fell back to default assessment, hash=%s, err=%s", imageHash, err.Error())
		}
		assessment = a
	}()
	wg.Wait()
	if assessment == nil {
		assessment = entity.DefaultAssessment(time.Now().UTC())
	}
	return locator, assessment
}

// VerifyHash answers whether a hash corresponds to a verified capture,
// combining ledger truth with the local index. The two lookups run in
// parallel and never block each other.
func (s *VerificationService) VerifyHash(ctx context.Context, imageHash string) (*LookupResult, error) {
	hash, err := util.NormalizeHexHash(imageHash)
	if err != nil {
		return nil, ErrInvalidHash.Enrich(err.Error())
	}

	if cached, found := s.cacheService.Get(types.GetLookupCacheKey(hash)); found {
		return cached.(*LookupResult), nil
	}

	var (
		onLedger       bool
		verificationID string
		ledgerErr      error
		record         *db.Verification
		dbErr          error
	)
	wg := &sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		if s.anchor == nil {
			return
		}
		onLedger, verificationID, ledgerErr = s.anchor.Lookup(ctx, hash)
		if ledgerErr != nil {
			logging.Logger.Errorf("ledger lookup failed, hash=%s, err=%s", hash, ledgerErr.Error())
		}
	}()
	go func() {
		defer wg.Done()
		record, dbErr = s.dao.GetVerificationByHash(hash)
	}()
	wg.Wait()

	if dbErr != nil {
		return nil, InternalErr.Enrich(dbErr.Error())
	}

	result := &LookupResult{
		Exists:         onLedger || record != nil,
		OnLedger:       onLedger,
		InIndex:        record != nil,
		VerificationID: verificationID,
		Verification:   record,
	}
	if result.VerificationID == "" && record != nil {
		result.VerificationID = record.VerificationID
	}
	if onLedger && record == nil {
		metrics.LookupDivergenceCounter.Inc()
		logging.Logger.Errorf("ledger has verification for hash=%s but local index does not, verification_id=%s", hash, verificationID)
	}
	// records are immutable once anchored, only fully consistent results are cached
	if result.OnLedger && result.InIndex {
		s.cacheService.Set(types.GetLookupCacheKey(hash), result)
	}
	return result, nil
}

func (s *VerificationService) GetVerification(ctx context.Context, id int64) (*db.Verification, error) {
	verification, err := s.dao.GetVerificationByID(id)
	if err != nil {
		return nil, InternalErr.Enrich(err.Error())
	}
	if verification == nil {
		return nil, ErrVerificationNotFound
	}
	return verification, nil
}

func (s *VerificationService) GetVerificationsByOwner(ctx context.Context, ownerID string) ([]*db.Verification, error) {
	if ownerID == "" {
		return nil, ErrInvalidRequest.Enrich("missing owner id")
	}
	verifications, err := s.dao.GetVerificationsByOwner(ownerID)
	if err != nil {
		return nil, InternalErr.Enrich(err.Error())
	}
	return verifications, nil
}
