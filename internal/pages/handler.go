package pages

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-review/internal/checkout"
	"resume-review/internal/extract"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/server/respond"
)

// Handler serves the static pages of the site.
type Handler struct {
	Config config.Config
}

// NewHandler constructs a Handler.
func NewHandler(cfg config.Config) *Handler {
	return &Handler{Config: cfg}
}

// RegisterRoutes attaches page routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.index)
	rg.GET("/impressum", h.impressum)
	rg.GET("/datenschutz", h.datenschutz)
}

func (h *Handler) index(c *gin.Context) {
	paid, _ := strconv.ParseBool(c.Query("paid"))
	data := gin.H{
		"Paid":            paid,
		"Price":           PriceLabel(checkout.UnitAmountCents),
		"Accept":          strings.Join(extract.AllowedExtensions, ","),
		"MaxUploadBytes":  h.Config.MaxUploadBytes,
		"StripePublicKey": h.Config.StripePublicKey,
	}
	if h.Config.RequirePayment {
		data["SessionID"] = strings.TrimSpace(c.Query("session_id"))
	}
	respond.Page(c, "index.html", data)
}

func (h *Handler) impressum(c *gin.Context) {
	respond.Page(c, "impressum.html", gin.H{"Title": "Impressum", "Operator": h.Config.Operator})
}

func (h *Handler) datenschutz(c *gin.Context) {
	respond.Page(c, "datenschutz.html", gin.H{"Title": "Datenschutz", "Operator": h.Config.Operator})
}

// PriceLabel formats an amount of euro cents the German way, e.g. "5,00 €".
func PriceLabel(cents int64) string {
	euros := cents / 100
	rest := cents % 100
	if rest < 0 {
		rest = -rest
	}
	frac := strconv.FormatInt(rest, 10)
	if rest < 10 {
		frac = "0" + frac
	}
	return strconv.FormatInt(euros, 10) + "," + frac + " €"
}
