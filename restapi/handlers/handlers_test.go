package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/db"
	"github.com/truthlens/proof-hub/entity"
	"github.com/truthlens/proof-hub/models"
	"github.com/truthlens/proof-hub/service"
)

type fakeSvc struct {
	submitErr error
	record    *db.Verification
	lookup    *service.LookupResult
}

func (f *fakeSvc) Submit(ctx context.Context, capture *entity.RawCapture) (*db.Verification, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.record, nil
}

func (f *fakeSvc) VerifyHash(ctx context.Context, imageHash string) (*service.LookupResult, error) {
	return f.lookup, nil
}

func (f *fakeSvc) GetVerification(ctx context.Context, id int64) (*db.Verification, error) {
	if f.record == nil || f.record.Id != id {
		return nil, service.ErrVerificationNotFound
	}
	return f.record, nil
}

func (f *fakeSvc) GetVerificationsByOwner(ctx context.Context, ownerID string) ([]*db.Verification, error) {
	if f.record == nil {
		return []*db.Verification{}, nil
	}
	return []*db.Verification{f.record}, nil
}

func setupTestRouter(svc service.Verification) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, &config.Config{
		LedgerConfig: config.LedgerConfig{BlockExplorerURLTmpl: "https://polygonscan.com/tx/%s"},
	})
	r := gin.New()
	r.POST("/v1/verifications", h.SubmitVerification)
	r.POST("/v1/verifications/verify", h.VerifyHash)
	r.GET("/v1/verifications/owner/:owner", h.GetVerificationsByOwner)
	r.GET("/v1/verifications/:id", h.GetVerification)
	return r
}

func testRecord() *db.Verification {
	return &db.Verification{
		Id:             7,
		OwnerID:        "owner-1",
		ImageHash:      "b5d4045c3f466fa91fe2cc6abe79232a1a57cdf104f7a26e716e0a1e2789df78",
		Cid:            "QmFake",
		TxHash:         "0xabc",
		VerificationID: "0xdef",
		Analysis:       `{"probability":0.1,"isAuthentic":true}`,
		CreatedTime:    1700000000,
	}
}

func TestSubmitVerificationCreated(t *testing.T) {
	r := setupTestRouter(&fakeSvc{record: testRecord()})

	body, _ := json.Marshal(models.SubmitVerificationRequest{
		OwnerID: "owner-1",
		Image:   "data:image/jpeg;base64,QUJD",
	})
	req, _ := http.NewRequest("POST", "/v1/verifications", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body %s", w.Code, w.Body.String())
	}
	var resp models.SubmitVerificationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected response: %v", err)
	}
	if !resp.Success || resp.Verification == nil {
		t.Fatalf("expected verification view, got %s", w.Body.String())
	}
	if resp.Verification.BlockExplorerURL != "https://polygonscan.com/tx/0xabc" {
		t.Errorf("unexpected explorer url: %s", resp.Verification.BlockExplorerURL)
	}
}

func TestSubmitVerificationMissingFields(t *testing.T) {
	r := setupTestRouter(&fakeSvc{record: testRecord()})

	req, _ := http.NewRequest("POST", "/v1/verifications", bytes.NewReader([]byte(`{"owner_id":"owner-1"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSubmitVerificationAnchoringFailure(t *testing.T) {
	r := setupTestRouter(&fakeSvc{submitErr: service.ErrAnchoringFailed})

	body, _ := json.Marshal(models.SubmitVerificationRequest{OwnerID: "owner-1", Image: "QUJD"})
	req, _ := http.NewRequest("POST", "/v1/verifications", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	var e models.Error
	json.Unmarshal(w.Body.Bytes(), &e)
	if e.Code != service.ErrAnchoringFailed.Code {
		t.Errorf("expected typed anchoring failure code, got %d", e.Code)
	}
}

func TestSubmitVerificationValidationFailure(t *testing.T) {
	r := setupTestRouter(&fakeSvc{submitErr: service.ErrHashMismatch})

	body, _ := json.Marshal(models.SubmitVerificationRequest{OwnerID: "owner-1", Image: "QUJD"})
	req, _ := http.NewRequest("POST", "/v1/verifications", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestVerifyHash(t *testing.T) {
	record := testRecord()
	r := setupTestRouter(&fakeSvc{
		lookup: &service.LookupResult{
			Exists:         true,
			OnLedger:       true,
			InIndex:        true,
			VerificationID: record.VerificationID,
			Verification:   record,
		},
	})

	body, _ := json.Marshal(models.VerifyHashRequest{ImageHash: record.ImageHash})
	req, _ := http.NewRequest("POST", "/v1/verifications/verify", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp models.VerifyHashResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected response: %v", err)
	}
	if !resp.Exists || !resp.OnLedger || !resp.InIndex {
		t.Errorf("expected consistent lookup, got %+v", resp)
	}
}

func TestGetVerificationNotFound(t *testing.T) {
	r := setupTestRouter(&fakeSvc{record: testRecord()})

	req, _ := http.NewRequest("GET", "/v1/verifications/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetVerificationsByOwner(t *testing.T) {
	r := setupTestRouter(&fakeSvc{record: testRecord()})

	req, _ := http.NewRequest("GET", "/v1/verifications/owner/owner-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp models.ListVerificationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected response: %v", err)
	}
	if len(resp.Verifications) != 1 {
		t.Errorf("expected one verification, got %d", len(resp.Verifications))
	}
}
