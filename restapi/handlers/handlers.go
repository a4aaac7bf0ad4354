package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/db"
	"github.com/truthlens/proof-hub/entity"
	"github.com/truthlens/proof-hub/models"
	"github.com/truthlens/proof-hub/service"
)

type Handler struct {
	Svc    service.Verification
	Config *config.Config
}

func NewHandler(svc service.Verification, cfg *config.Config) *Handler {
	return &Handler{Svc: svc, Config: cfg}
}

// Error maps a service error onto an HTTP status and payload.
func Error(err error) (int, *models.Error) {
	switch e := err.(type) {
	case service.Err:
		return service.HTTPStatus(e.Code), &models.Error{Code: e.Code, Message: e.Message}
	case nil:
		return http.StatusOK, nil
	default:
		return http.StatusInternalServerError, &models.Error{Code: service.InternalErr.Code, Message: err.Error()}
	}
}

func (h *Handler) view(v *db.Verification) *models.VerificationView {
	if v == nil {
		return nil
	}
	view := &models.VerificationView{
		ID:             v.Id,
		OwnerID:        v.OwnerID,
		ImageHash:      v.ImageHash,
		Cid:            v.Cid,
		CidURL:         v.CidURL,
		TxHash:         v.TxHash,
		VerificationID: v.VerificationID,
		IsPrivate:      v.Private,
		Timestamp:      v.CreatedTime,
	}
	if v.Latitude != 0 || v.Longitude != 0 {
		view.Location = &models.LatLng{Lat: v.Latitude, Lng: v.Longitude}
	}
	if v.Analysis != "" && json.Valid([]byte(v.Analysis)) {
		view.Analysis = json.RawMessage(v.Analysis)
	}
	if v.TxHash != "" && h.Config.LedgerConfig.BlockExplorerURLTmpl != "" {
		view.BlockExplorerURL = fmt.Sprintf(h.Config.LedgerConfig.BlockExplorerURLTmpl, v.TxHash)
	}
	return view
}

func (h *Handler) SubmitVerification(c *gin.Context) {
	var req models.SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &models.Error{Code: service.ErrInvalidRequest.Code, Message: err.Error()})
		return
	}

	capture := &entity.RawCapture{
		OwnerID:      req.OwnerID,
		Image:        []byte(req.Image),
		SuppliedHash: req.ImageHash,
		Private:      req.IsPrivate,
	}
	if req.Location != nil {
		capture.Location = &entity.Location{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	verification, err := h.Svc.Submit(c.Request.Context(), capture)
	if err != nil {
		status, payload := Error(err)
		c.JSON(status, payload)
		return
	}
	c.JSON(http.StatusCreated, &models.SubmitVerificationResponse{
		Success:      true,
		Verification: h.view(verification),
	})
}

func (h *Handler) VerifyHash(c *gin.Context) {
	var req models.VerifyHashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &models.Error{Code: service.ErrInvalidRequest.Code, Message: err.Error()})
		return
	}

	result, err := h.Svc.VerifyHash(c.Request.Context(), req.ImageHash)
	if err != nil {
		status, payload := Error(err)
		c.JSON(status, payload)
		return
	}
	c.JSON(http.StatusOK, &models.VerifyHashResponse{
		Exists:         result.Exists,
		OnLedger:       result.OnLedger,
		InIndex:        result.InIndex,
		VerificationID: result.VerificationID,
		Verification:   h.view(result.Verification),
	})
}

func (h *Handler) GetVerification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.Error{Code: service.ErrInvalidRequest.Code, Message: "invalid verification id"})
		return
	}
	verification, err := h.Svc.GetVerification(c.Request.Context(), id)
	if err != nil {
		status, payload := Error(err)
		c.JSON(status, payload)
		return
	}
	c.JSON(http.StatusOK, &models.SubmitVerificationResponse{
		Success:      true,
		Verification: h.view(verification),
	})
}

func (h *Handler) GetVerificationsByOwner(c *gin.Context) {
	verifications, err := h.Svc.GetVerificationsByOwner(c.Request.Context(), c.Param("owner"))
	if err != nil {
		status, payload := Error(err)
		c.JSON(status, payload)
		return
	}
	views := make([]*models.VerificationView, 0, len(verifications))
	for _, v := range verifications {
		views = append(views, h.view(v))
	}
	c.JSON(http.StatusOK, &models.ListVerificationsResponse{
		Success:       true,
		Verifications: views,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
