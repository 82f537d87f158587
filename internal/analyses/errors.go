package analyses

import (
	"context"
	"errors"
	"fmt"

	"resume-review/internal/extract"
	"resume-review/internal/llm"
)

var (
	ErrMissingFile      = errors.New("file is required")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrPipelineNotReady = errors.New("analysis pipeline not configured")
)

const (
	ErrorCodeExtraction = "EXTRACTION_FAILED"
	ErrorCodeLLMTimeout = "LLM_TIMEOUT"
	ErrorCodeLLMEmpty   = "LLM_EMPTY"
	ErrorCodeLLM        = "LLM_ERROR"
	ErrorCodeRender     = "RENDER_FAILED"
	ErrorCodeCanceled   = "CANCELED"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageComplete Stage = "complete"
	StageRender   Stage = "render"
)

// StageError records which step of the pipeline failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// classifyFailure maps a pipeline error to a stable code for logs.
func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout
	}
	if errors.Is(err, llm.ErrEmptyCompletion) {
		return ErrorCodeLLMEmpty
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case StageExtract:
			return ErrorCodeExtraction
		case StageComplete:
			return ErrorCodeLLM
		case StageRender:
			return ErrorCodeRender
		}
	}
	if errors.Is(err, extract.ErrMalformedDocument) {
		return ErrorCodeExtraction
	}
	return ErrorCodeInternal
}
