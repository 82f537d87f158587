package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format identifies how an upload is turned into text.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// AllowedExtensions lists the upload suffixes the service accepts.
var AllowedExtensions = []string{".pdf", ".docx", ".txt"}

var ErrMalformedDocument = errors.New("malformed document")

// Allowed reports whether fileName ends in one of AllowedExtensions,
// ignoring case.
func Allowed(fileName string) bool {
	name := strings.ToLower(strings.TrimSpace(fileName))
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FormatOf picks the extraction strategy for fileName. Anything that is not
// a PDF or DOCX is read as text.
func FormatOf(fileName string) Format {
	name := strings.ToLower(strings.TrimSpace(fileName))
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	case strings.HasSuffix(name, ".docx"):
		return FormatDOCX
	default:
		return FormatText
	}
}

// Text reads r completely and extracts plain text according to the file
// name's extension. Callers check Allowed first.
func Text(ctx context.Context, fileName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("extract text file=%s: read: %w", fileName, err)
	}
	return FromBytes(ctx, fileName, data)
}

// FromBytes extracts text from an in-memory payload.
func FromBytes(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	format := FormatOf(fileName)
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		text = decodeUTF8(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract text file=%s format=%s: %w", fileName, format, err)
	}
	return text, nil
}

func decodeUTF8(data []byte) string {
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

func extractPDF(data []byte) (text string, err error) {
	// The parser panics on some corrupt inputs instead of returning errors.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrMalformedDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return joinPages(reader.NumPage(), func(num int) (string, error) {
		page := reader.Page(num)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	}), nil
}

// joinPages joins the text of pages 1..n with newlines. A page that fails to
// yield text contributes an empty line.
func joinPages(n int, pageText func(num int) (string, error)) string {
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := pageText(i)
		if err != nil {
			text = ""
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n")
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx data", ErrMalformedDocument)
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	defer doc.Close()

	paragraphs, err := paragraphTexts(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}
