package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-review/internal/checkout"
	"resume-review/internal/shared/server/respond"
	"resume-review/internal/web"
)

type fakeGate struct {
	err      error
	redeemed []string
	released []string
}

func (g *fakeGate) Redeem(ctx context.Context, sessionID string) error {
	g.redeemed = append(g.redeemed, sessionID)
	return g.err
}

func (g *fakeGate) Release(sessionID string) {
	g.released = append(g.released, sessionID)
}

func setupRouter(t *testing.T, completer *recordingCompleter, maxBytes int64, gate PaymentGate) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	h := &Handler{Svc: newTestService(completer), MaxUploadBytes: maxBytes}
	if gate != nil {
		h.Payments = gate
	}
	h.RegisterPageRoutes(r.Group("/", respond.HTMLPages()))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartRequest(t *testing.T, target, fileName string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAnalyzePageRendersResult(t *testing.T) {
	completer := &recordingCompleter{answer: "## Gesamtbewertung\n**72 von 100**\n<script>alert(1)</script>"}
	r := setupRouter(t, completer, 1<<20, nil)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, multipartRequest(t, "/analyze", "Lebenslauf.TXT", []byte("Erfahrung"), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{"Lebenslauf.TXT", `<span class="score-value">72</span>`, "<strong>72 von 100</strong>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in result page:\n%s", want, body)
		}
	}
	if strings.Contains(body, "alert(1)") {
		t.Fatal("unsanitized model output reached the page")
	}
}

func TestAnalyzeAPIReturnsJSON(t *testing.T) {
	completer := &recordingCompleter{answer: "Gut gemacht."}
	r := setupRouter(t, completer, 1<<20, nil)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", "cv.txt", []byte("text"), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		ID         string `json:"id"`
		FileName   string `json:"fileName"`
		Score      *int   `json:"score"`
		ScoreLabel string `json:"scoreLabel"`
		HTML       string `json:"html"`
		Markdown   string `json:"markdown"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ID == "" || payload.FileName != "cv.txt" || payload.Score != nil || payload.ScoreLabel != "-" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.HTML != "<p>Gut gemacht.</p>" || payload.Markdown != "Gut gemacht." {
		t.Fatalf("unexpected content %+v", payload)
	}
}

func TestAnalyzeAcceptsDotsInFileName(t *testing.T) {
	for _, name := range []string{"cv..pdf", "Lebenslauf..txt", "CV...final.txt"} {
		name := name
		t.Run(name, func(t *testing.T) {
			completer := &recordingCompleter{answer: "Solide."}
			r := setupRouter(t, completer, 1<<20, nil)

			data := []byte("Erfahrung")
			if strings.HasSuffix(name, ".pdf") {
				// Not a real PDF: extraction fails, but the upload itself is admitted.
				data = []byte("%PDF-")
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", name, data, nil))

			if resp.Code == http.StatusBadRequest {
				t.Fatalf("expected %q to be admitted, got 400: %s", name, resp.Body.String())
			}
			if strings.HasSuffix(name, ".txt") {
				if resp.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
				}
				if !strings.Contains(resp.Body.String(), `"fileName":"`+name+`"`) {
					t.Fatalf("expected file name %q echoed, got %s", name, resp.Body.String())
				}
			}
		})
	}
}

func TestAnalyzeRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		status   int
		code     string
	}{
		{name: "missing file", fileName: "", status: http.StatusBadRequest, code: "validation_error"},
		{name: "wrong extension", fileName: "cv.doc", data: []byte("x"), status: http.StatusBadRequest, code: "unsupported_file"},
		{name: "executable", fileName: "cv.pdf.exe", data: []byte("x"), status: http.StatusBadRequest, code: "unsupported_file"},
		{name: "too large", fileName: "cv.txt", data: bytes.Repeat([]byte("a"), 2048), status: http.StatusRequestEntityTooLarge, code: "file_too_large"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			completer := &recordingCompleter{answer: "unused"}
			r := setupRouter(t, completer, 1024, nil)

			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", tt.fileName, tt.data, nil))

			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			var payload respond.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, payload.Error.Code)
			}
			if len(completer.prompts) != 0 {
				t.Fatal("model called for rejected upload")
			}
		})
	}
}

func TestAnalyzePageFailureShowsErrorPage(t *testing.T) {
	r := setupRouter(t, &recordingCompleter{err: errors.New("quota exceeded")}, 1<<20, nil)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, multipartRequest(t, "/analyze", "cv.txt", []byte("text"), nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Die Analyse ist fehlgeschlagen") {
		t.Fatalf("expected generic error page, got:\n%s", body)
	}
	if strings.Contains(body, "quota exceeded") {
		t.Fatal("internal error leaked to the page")
	}
}

func TestAnalyzePaymentGate(t *testing.T) {
	t.Run("unpaid", func(t *testing.T) {
		gate := &fakeGate{err: checkout.ErrPaymentRequired}
		completer := &recordingCompleter{answer: "ok"}
		r := setupRouter(t, completer, 1<<20, gate)

		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", "cv.txt", []byte("x"), nil))
		if resp.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", resp.Code)
		}
		if len(completer.prompts) != 0 {
			t.Fatal("model called without payment")
		}
	})

	t.Run("paid", func(t *testing.T) {
		gate := &fakeGate{}
		r := setupRouter(t, &recordingCompleter{answer: "ok"}, 1<<20, gate)

		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", "cv.txt", []byte("x"), map[string]string{"session_id": "cs_1"}))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if len(gate.redeemed) != 1 || gate.redeemed[0] != "cs_1" {
			t.Fatalf("unexpected redeem calls %v", gate.redeemed)
		}
		if len(gate.released) != 0 {
			t.Fatalf("unexpected release calls %v", gate.released)
		}
	})

	t.Run("released on failure", func(t *testing.T) {
		gate := &fakeGate{}
		r := setupRouter(t, &recordingCompleter{err: errors.New("down")}, 1<<20, gate)

		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", "cv.txt", []byte("x"), map[string]string{"session_id": "cs_2"}))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.Code)
		}
		if len(gate.released) != 1 || gate.released[0] != "cs_2" {
			t.Fatalf("expected session released, got %v", gate.released)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		gate := &fakeGate{err: errors.New("stripe unreachable")}
		r := setupRouter(t, &recordingCompleter{answer: "ok"}, 1<<20, gate)

		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, multipartRequest(t, "/api/v1/analyses", "cv.txt", []byte("x"), map[string]string{"session_id": "cs_3"}))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.Code)
		}
	})
}
