package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-review/internal/shared/server/respond"
	"resume-review/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the checkout service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches checkout routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create_checkout", h.createCheckout)
}

func (h *Handler) createCheckout(c *gin.Context) {
	session, err := h.Svc.Create(c.Request.Context())
	if err != nil {
		telemetry.Error("checkout.failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "checkout_failed",
			"Der Bezahlvorgang konnte nicht gestartet werden. Bitte versuchen Sie es später erneut.", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, session.URL)
}
