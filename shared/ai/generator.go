package ai

import (
	"context"
	"errors"
	"time"

	"creator-stack/internal/models"
	"creator-stack/shared/config"
	"creator-stack/shared/monitoring"

	"go.uber.org/zap"
)

const (
	connectionTestPrompt    = "Reply with the JSON object {\"status\": \"ok\"}."
	connectionTestMaxTokens = 10
)

// Generator runs the full pipeline: prompt, completion, extraction,
// normalization and validation. It holds no mutable state.
type Generator struct {
	completer Completer
	cfg       config.AIConfig
	log       *zap.Logger
}

func NewGenerator(cfg *config.AIConfig, completer Completer, logger *zap.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Field: "ai", Reason: "configuration is required"}
	}
	if completer == nil {
		return nil, &ConfigurationError{Field: "ai.provider", Reason: "completion client is required"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		completer: completer,
		cfg:       *cfg,
		log:       logger.With(zap.String("provider", completer.Name())),
	}, nil
}

// GenerateContent produces a fully populated content record for one of the
// content categories. Errors are returned only for invalid input, transport
// failures, empty completions and text without a JSON object.
func (g *Generator) GenerateContent(ctx context.Context, req models.GenerationRequest) (*Result[models.GeneratedContent], error) {
	category := req.Category
	prompt, err := BuildPrompt(category, req.Prompt)
	if err != nil {
		g.observe(category, err)
		return nil, err
	}

	tree, err := g.completeJSON(ctx, category, CompletionRequest{
		SystemPrompt: ContentSystemPrompt,
		Prompt:       prompt,
		Temperature:  g.cfg.ContentTemp(),
		MaxTokens:    g.cfg.ContentMaxTokens,
	})
	if err != nil {
		g.observe(category, err)
		return nil, err
	}

	normalized, err := Normalize(tree, category)
	if err != nil {
		g.observe(category, err)
		return nil, err
	}
	if normalized.Rewrapped {
		g.log.Debug("Rewrapped flat completion", zap.String("category", category.String()))
	}

	result := ValidateContent(normalized)
	g.record(category, result.Provenance)
	return &result, nil
}

// AnalyzeVideos compares a creator's video with a viral reference video.
func (g *Generator) AnalyzeVideos(ctx context.Context, req models.VideoAnalysisRequest) (*Result[models.VideoAnalysisResult], error) {
	category := models.CategoryVideoComparison
	prompt, err := BuildVideoComparisonPrompt(req)
	if err != nil {
		g.observe(category, err)
		return nil, err
	}

	tree, err := g.completeJSON(ctx, category, CompletionRequest{
		SystemPrompt: VideoSystemPrompt,
		Prompt:       prompt,
		Temperature:  g.cfg.VideoTemp(),
		MaxTokens:    g.cfg.VideoMaxTokens,
	})
	if err != nil {
		g.observe(category, err)
		return nil, err
	}

	result := ValidateVideoAnalysis(tree)
	g.record(category, result.Provenance)
	return &result, nil
}

// TestConnection sends one minimal completion to verify the endpoint and
// credential. An empty completion still proves the request was accepted.
func (g *Generator) TestConnection(ctx context.Context) error {
	_, err := g.completer.Complete(ctx, CompletionRequest{
		SystemPrompt: ContentSystemPrompt,
		Prompt:       connectionTestPrompt,
		MaxTokens:    connectionTestMaxTokens,
	})
	if IsEmptyResponse(err) {
		g.log.Info("Connection test succeeded with an empty completion", zap.Error(err))
		return nil
	}
	if err != nil {
		g.log.Warn("Connection test failed", zap.Error(err))
		return err
	}
	g.log.Info("Connection test succeeded")
	return nil
}

func (g *Generator) completeJSON(ctx context.Context, category models.Category, req CompletionRequest) (Tree, error) {
	start := time.Now()
	text, err := g.completer.Complete(ctx, req)
	monitoring.CompletionLatency.WithLabelValues(g.completer.Name(), category.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	// A cancelled caller gets no result even if the text already arrived.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.log.Debug("Completion received",
		zap.String("category", category.String()),
		zap.Int("length", len(text)),
		zap.String("raw", text))

	tree, err := Extract(text)
	if err != nil {
		g.log.Warn("No JSON object in completion",
			zap.String("category", category.String()),
			zap.Error(err))
		return nil, err
	}
	return tree, nil
}

func (g *Generator) record(category models.Category, prov models.Provenance) {
	defaulted := prov.Defaulted()
	outcome := monitoring.OutcomeSuccess
	if len(defaulted) > 0 {
		outcome = monitoring.OutcomeDefaulted
		monitoring.DefaultedFields.WithLabelValues(category.String()).Add(float64(len(defaulted)))
		g.log.Info("Filled missing fields with defaults",
			zap.String("category", category.String()),
			zap.Strings("fields", defaulted))
	}
	monitoring.GenerationRequests.WithLabelValues(category.String(), outcome).Inc()
}

func (g *Generator) observe(category models.Category, err error) {
	monitoring.GenerationRequests.WithLabelValues(category.String(), outcomeFor(err)).Inc()
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded) && !IsTransportError(err):
		return monitoring.OutcomeCanceled
	case IsExtractionError(err):
		return monitoring.OutcomeExtraction
	case IsTransportError(err):
		return monitoring.OutcomeTransport
	case IsEmptyResponse(err):
		return monitoring.OutcomeEmpty
	default:
		return monitoring.OutcomeInvalid
	}
}
