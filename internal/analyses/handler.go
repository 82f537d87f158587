package analyses

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-review/internal/checkout"
	"resume-review/internal/extract"
	"resume-review/internal/shared/server/middleware"
	"resume-review/internal/shared/server/respond"
	"resume-review/internal/shared/util"
)

const (
	formFileField    = "file"
	formSessionField = "session_id"

	// multipartSlack covers boundaries and part headers on top of the file.
	multipartSlack = 1 << 20

	resultTemplate = "result.html"
)

// PaymentGate unlocks an analysis with a paid checkout session.
type PaymentGate interface {
	Redeem(ctx context.Context, sessionID string) error
	Release(sessionID string)
}

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
	// Payments is consulted only when non-nil.
	Payments PaymentGate
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64, payments PaymentGate) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes, Payments: payments}
}

// RegisterPageRoutes attaches the browser form target.
func (h *Handler) RegisterPageRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyzePage)
}

// RegisterRoutes attaches the JSON API routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyzeAPI)
}

func (h *Handler) analyzePage(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, resultTemplate, gin.H{
		"Title":    "Ihre Analyse",
		"FileName": result.FileName,
		"HTML":     result.HTML,
		"Score":    result.ScoreLabel(),
	})
}

func (h *Handler) analyzeAPI(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	respond.OK(c, toResponse(result))
}

// run reads the upload, checks payment when enabled and executes the
// pipeline. It writes the error response itself and reports false on failure.
func (h *Handler) run(c *gin.Context) (Result, bool) {
	upload, err := h.readUpload(c)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large",
				"Die Datei ist zu groß.", gin.H{"maxBytes": h.MaxUploadBytes})
		case errors.Is(err, ErrUnsupportedFile):
			respond.Error(c, http.StatusBadRequest, "unsupported_file",
				"Bitte laden Sie eine PDF-, DOCX- oder TXT-Datei hoch.",
				gin.H{"allowed": extract.AllowedExtensions})
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error",
				"Bitte wählen Sie eine Datei aus.", nil)
		}
		return Result{}, false
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	sessionID := strings.TrimSpace(c.PostForm(formSessionField))
	if h.Payments != nil {
		if err := h.Payments.Redeem(ctx, sessionID); err != nil {
			if errors.Is(err, checkout.ErrPaymentRequired) || errors.Is(err, checkout.ErrSessionRedeemed) {
				respond.Error(c, http.StatusPaymentRequired, "payment_required",
					"Bitte schließen Sie zuerst die Bezahlung ab.", nil)
				return Result{}, false
			}
			_ = c.Error(err)
			respond.Error(c, http.StatusInternalServerError, "payment_check_failed",
				"Die Zahlung konnte nicht geprüft werden. Bitte versuchen Sie es erneut.", nil)
			return Result{}, false
		}
	}

	result, err := h.Svc.Analyze(ctx, upload)
	if result.ID != "" {
		c.Set(middleware.AnalysisIDKey, result.ID)
	}
	if err != nil {
		if h.Payments != nil {
			h.Payments.Release(sessionID)
		}
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, "analysis_failed",
			"Die Analyse ist fehlgeschlagen. Bitte versuchen Sie es später erneut.", nil)
		return Result{}, false
	}
	return result, true
}

func (h *Handler) readUpload(c *gin.Context) (Upload, error) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartSlack)
	}
	header, err := c.FormFile(formFileField)
	if err != nil {
		if isTooLarge(err) {
			return Upload{}, ErrFileTooLarge
		}
		return Upload{}, ErrMissingFile
	}
	if h.MaxUploadBytes > 0 && header.Size > h.MaxUploadBytes {
		return Upload{}, ErrFileTooLarge
	}

	name, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		return Upload{}, ErrMissingFile
	}
	if !extract.Allowed(name) {
		return Upload{}, ErrUnsupportedFile
	}

	data, err := readPart(header)
	if err != nil {
		return Upload{}, err
	}
	return Upload{FileName: name, Data: data}, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return errors.Is(err, multipart.ErrMessageTooLarge) || strings.Contains(err.Error(), "request body too large")
}
