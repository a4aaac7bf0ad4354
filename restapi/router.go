package restapi

import (
	"github.com/gin-gonic/gin"

	"github.com/truthlens/proof-hub/restapi/handlers"
)

// SetupRouter wires the verification API routes.
func SetupRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	v1 := r.Group("/v1")
	{
		v1.POST("/verifications", h.SubmitVerification)
		v1.POST("/verifications/verify", h.VerifyHash)
		v1.GET("/verifications/owner/:owner", h.GetVerificationsByOwner)
		v1.GET("/verifications/:id", h.GetVerification)
		v1.GET("/health", h.Health)
	}
	return r
}
