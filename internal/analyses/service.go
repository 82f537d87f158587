package analyses

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resume-review/internal/extract"
	"resume-review/internal/llm"
	"resume-review/internal/render"
	"resume-review/internal/shared/metrics"
	"resume-review/internal/shared/telemetry"
	"resume-review/internal/shared/util"
)

// Service runs the review pipeline for a single upload: extract the text,
// build the prompt, ask the model and render its answer.
type Service struct {
	LLM      llm.Completer
	Renderer *render.Renderer
	Model    string
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(completer llm.Completer, renderer *render.Renderer, model string) *Service {
	return &Service{LLM: completer, Renderer: renderer, Model: model}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Analyze runs the pipeline synchronously. On failure the returned Result
// still carries ID and FileName so callers can correlate logs.
func (s *Service) Analyze(ctx context.Context, upload Upload) (Result, error) {
	result := Result{
		ID:       uuid.NewString(),
		FileName: upload.FileName,
		Model:    s.Model,
	}
	if s.LLM == nil || s.Renderer == nil {
		return result, ErrPipelineNotReady
	}

	startedAt := s.clock()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.started", map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"analysis_id":    result.ID,
		"file_name":      upload.FileName,
		"format":         string(extract.FormatOf(upload.FileName)),
		"size_bytes":     len(upload.Data),
		"sha256":         util.Fingerprint(upload.Data),
		"prompt_version": llm.PromptVersion,
		"model":          s.Model,
	})

	text, err := extract.FromBytes(ctx, upload.FileName, upload.Data)
	if err != nil {
		metrics.IncExtractionFailed()
		return result, s.fail(ctx, result, &StageError{Stage: StageExtract, Err: err}, startedAt)
	}

	prompt := llm.BuildReviewPrompt(text)
	raw, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return result, s.fail(ctx, result, &StageError{Stage: StageComplete, Err: err}, startedAt)
	}

	rendered, err := s.Renderer.Render(raw)
	if err != nil {
		return result, s.fail(ctx, result, &StageError{Stage: StageRender, Err: err}, startedAt)
	}

	result.Markdown = raw
	result.HTML = rendered.HTML
	result.Score = rendered.Score
	result.Duration = s.clock().Sub(startedAt)

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(result.Duration))
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"analysis_id":  result.ID,
		"text_chars":   len([]rune(text)),
		"answer_chars": len([]rune(raw)),
		"score":        result.ScoreLabel(),
		"duration_ms":  durationMs(result.Duration),
	})
	return result, nil
}

func (s *Service) fail(ctx context.Context, result Result, err error, startedAt time.Time) error {
	elapsed := s.clock().Sub(startedAt)
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDurationMs(durationMs(elapsed))
	telemetry.Error("analysis.failed", map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"analysis_id":  result.ID,
		"file_name":    result.FileName,
		"failure_code": classifyFailure(err),
		"error":        telemetry.Truncate(err.Error(), 500),
		"duration_ms":  durationMs(elapsed),
	})
	return err
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
