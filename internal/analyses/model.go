package analyses

import (
	"time"

	"resume-review/internal/render"
)

// Upload is a document received from the browser. It lives only as long as
// the request that carried it.
type Upload struct {
	FileName string
	Data     []byte
}

// Result is the rendered review of one upload.
type Result struct {
	ID       string
	FileName string
	// Markdown is the trimmed model answer as received.
	Markdown string
	// HTML is the sanitized rendering of Markdown.
	HTML string
	// Score is in [0, 100], nil when the answer carries no recognizable score.
	Score    *int
	Model    string
	Duration time.Duration
}

// ScoreLabel renders the score, or the placeholder when there is none.
func (r Result) ScoreLabel() string {
	return render.ScoreLabel(r.Score)
}

// resultResponse is the JSON shape of POST /api/v1/analyses.
type resultResponse struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	Score      *int   `json:"score"`
	ScoreLabel string `json:"scoreLabel"`
	Markdown   string `json:"markdown"`
	HTML       string `json:"html"`
	Model      string `json:"model,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

func toResponse(r Result) resultResponse {
	return resultResponse{
		ID:         r.ID,
		FileName:   r.FileName,
		Score:      r.Score,
		ScoreLabel: r.ScoreLabel(),
		Markdown:   r.Markdown,
		HTML:       r.HTML,
		Model:      r.Model,
		DurationMs: r.Duration.Milliseconds(),
	}
}
