package bootstrap

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-review/internal/analyses"
	"resume-review/internal/checkout"
	"resume-review/internal/llm"
	openai "resume-review/internal/llm/openai"
	"resume-review/internal/pages"
	"resume-review/internal/render"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/server"
	"resume-review/internal/shared/server/middleware"
	"resume-review/internal/shared/telemetry"
	"resume-review/internal/web"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	LLM             llm.Completer
	Renderer        *render.Renderer
	AnalysesService *analyses.Service
	CheckoutService *checkout.Service
	AnalysisHandler *analyses.Handler
	CheckoutHandler *checkout.Handler
	PageHandler     *pages.Handler
	RateLimiter     *middleware.RateLimiter
}

// Option overrides a dependency, mainly for tests.
type Option func(*options)

type options struct {
	completer llm.Completer
	sessions  checkout.SessionAPI
}

// WithCompleter replaces the OpenAI client.
func WithCompleter(c llm.Completer) Option {
	return func(o *options) { o.completer = c }
}

// WithCheckoutSessions replaces the Stripe checkout session client.
func WithCheckoutSessions(s checkout.SessionAPI) Option {
	return func(o *options) { o.sessions = s }
}

// Build wires services, handlers and the router from cfg.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	completer, err := buildCompleter(cfg, o.completer)
	if err != nil {
		return nil, err
	}
	sessions, err := buildSessions(cfg, o.sessions)
	if err != nil {
		return nil, err
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	app := &App{
		Config:      cfg,
		LLM:         completer,
		Renderer:    render.New(),
		RateLimiter: middleware.NewRateLimiter(nil),
	}
	app.AnalysesService = analyses.NewService(completer, app.Renderer, cfg.LLMModel)
	app.CheckoutService = &checkout.Service{
		Sessions: sessions,
		BaseURL:  cfg.BaseURL,
	}

	var gate analyses.PaymentGate
	if cfg.RequirePayment {
		app.CheckoutService.Ledger = checkout.NewMemoryLedger()
		gate = app.CheckoutService
	}

	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService, cfg.MaxUploadBytes, gate)
	app.CheckoutHandler = checkout.NewHandler(app.CheckoutService)
	app.PageHandler = pages.NewHandler(cfg)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Templates:       tmpl,
		Static:          web.Static(),
		PageHandler:     app.PageHandler,
		AnalysisHandler: app.AnalysisHandler,
		CheckoutHandler: app.CheckoutHandler,
		RateLimiter:     app.RateLimiter,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":             cfg.Env,
		"model":           cfg.LLMModel,
		"base_url":        cfg.BaseURL,
		"require_payment": cfg.RequirePayment,
		"max_upload":      cfg.MaxUploadBytes,
	})
	return app, nil
}

func buildCompleter(cfg config.Config, override llm.Completer) (llm.Completer, error) {
	if override != nil {
		return override, nil
	}
	client, err := openai.NewClient(openai.Options{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.LLMModel,
		BaseURL:    cfg.OpenAIBaseURL,
		Timeout:    cfg.OpenAITimeout,
		MaxRetries: cfg.OpenAIMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return client, nil
}

func buildSessions(cfg config.Config, override checkout.SessionAPI) (checkout.SessionAPI, error) {
	if override != nil {
		return override, nil
	}
	if strings.TrimSpace(cfg.StripeSecretKey) == "" {
		return nil, fmt.Errorf("stripe client: %w", config.ErrMissingStripeKey)
	}
	return checkout.NewStripeSessions(cfg.StripeSecretKey), nil
}
