package contentdigest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creator-stack/internal/models"
	"creator-stack/shared/ai"
	"creator-stack/shared/config"
	"creator-stack/shared/email"
	"creator-stack/shared/scheduler"
	"creator-stack/shared/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ContentGenerator is the part of ai.Generator the digest needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req models.GenerationRequest) (*ai.Result[models.GeneratedContent], error)
}

type DigestSender interface {
	SendDigest(report *models.DigestReport) error
}

// DigestAgent implements the scheduler.Agent interface
type DigestAgent struct {
	config      *config.Config
	log         *zap.Logger
	generator   ContentGenerator
	emailSender DigestSender
	tracker     *storage.TopicTracker
}

// DigestMetrics summarizes one digest run.
type DigestMetrics struct {
	Topics    int
	Skipped   int
	Generated int
	Defaulted int
	Failed    int
}

func (m DigestMetrics) GetSummary() string {
	return fmt.Sprintf("%d topics, %d skipped, %d generated (%d with defaults), %d failed",
		m.Topics, m.Skipped, m.Generated, m.Defaulted, m.Failed)
}

func NewDigestAgent(cfg *config.Config, logger *zap.Logger) *DigestAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestAgent{
		config: cfg,
		log:    logger,
	}
}

func (d *DigestAgent) Name() string {
	return "Content Digest"
}

func (d *DigestAgent) Initialize() error {
	d.log.Info("Initializing agent", zap.String("agent", d.Name()))

	if d.generator == nil {
		completer, err := ai.NewCompleter(context.Background(), &d.config.AI, d.log)
		if err != nil {
			return fmt.Errorf("failed to create completion client: %w", err)
		}
		generator, err := ai.NewGenerator(&d.config.AI, completer, d.log)
		if err != nil {
			return fmt.Errorf("failed to create generator: %w", err)
		}
		d.generator = generator
		d.log.Info("Generator initialized", zap.String("provider", completer.Name()))
	}

	if d.emailSender == nil {
		d.emailSender = email.NewSender(&d.config.Email)
		d.log.Info("Email sender initialized")
	}

	if d.tracker == nil {
		digestCfg := d.config.ContentDigest
		tracker, err := storage.NewTopicTracker(digestCfg.DataDir, digestCfg.DedupeWindow())
		if err != nil {
			return fmt.Errorf("failed to create topic tracker: %w", err)
		}
		d.tracker = tracker
		d.log.Info("Topic tracker initialized", zap.Int("tracked", tracker.Count()))
	}

	return nil
}

type topicOutcome struct {
	item *models.DigestItem
	err  error
}

func (d *DigestAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	runID := uuid.NewString()
	log := d.log.With(zap.String("run_id", runID))

	topics := d.config.ContentDigest.Topics
	metrics := DigestMetrics{Topics: len(topics)}

	var pending []models.GenerationRequest
	for _, topic := range topics {
		if d.tracker.IsDelivered(topic) {
			metrics.Skipped++
			continue
		}
		pending = append(pending, topic)
	}

	log.Info("Starting digest",
		zap.Int("topics", len(topics)),
		zap.Int("pending", len(pending)),
		zap.Int("skipped", metrics.Skipped))

	if len(pending) == 0 {
		events.OnSuccess(metrics, time.Since(startTime))
		return nil
	}

	outcomes := make([]topicOutcome, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.config.ContentDigest.Concurrency, 1))

	for i, topic := range pending {
		g.Go(func() error {
			result, err := d.generator.GenerateContent(gctx, topic)
			if err != nil {
				outcomes[i] = topicOutcome{err: err}
				return nil
			}
			outcomes[i] = topicOutcome{item: &models.DigestItem{
				Request:   topic,
				Content:   &result.Value,
				Defaulted: result.Provenance.Defaulted(),
			}}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	report := &models.DigestReport{RunID: runID, Date: time.Now()}
	var (
		delivered []models.GenerationRequest
		failures  []error
	)
	for i, outcome := range outcomes {
		topic := pending[i]
		if outcome.err != nil {
			log.Warn("Topic generation failed",
				zap.String("category", topic.Category.String()),
				zap.String("prompt", topic.Prompt),
				zap.Bool("retryable", ai.IsRetryable(outcome.err)),
				zap.Error(outcome.err))
			report.Failed = append(report.Failed, fmt.Sprintf("%s: %s", topic.Category, topic.Prompt))
			failures = append(failures, fmt.Errorf("%s: %w", storage.TopicKey(topic), outcome.err))
			continue
		}
		if len(outcome.item.Defaulted) > 0 {
			metrics.Defaulted++
		}
		report.Items = append(report.Items, outcome.item)
		delivered = append(delivered, topic)
	}
	metrics.Generated = len(report.Items)
	metrics.Failed = len(failures)

	if len(report.Items) == 0 {
		return fmt.Errorf("all %d topics failed: %w", len(pending), errors.Join(failures...))
	}

	if err := d.emailSender.SendDigest(report); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	log.Info("Digest email sent", zap.Int("items", len(report.Items)))

	if err := d.tracker.MarkDelivered(delivered); err != nil {
		log.Warn("Failed to record delivered topics", zap.Error(err))
	}

	duration := time.Since(startTime)
	if len(failures) > 0 {
		events.OnPartialFailure(errors.Join(failures...), duration)
	}
	events.OnSuccess(metrics, duration)

	return nil
}
