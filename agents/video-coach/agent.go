package videocoach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creator-stack/agents/video-coach/youtube"
	"creator-stack/internal/models"
	"creator-stack/shared/ai"
	"creator-stack/shared/config"
	"creator-stack/shared/email"
	"creator-stack/shared/scheduler"

	"go.uber.org/zap"
)

// descriptionLimit bounds how much of a video description goes into the prompt.
const descriptionLimit = 1500

type VideoSource interface {
	GetVideos(ctx context.Context, ids []string) ([]*models.Video, error)
}

type VideoAnalyzer interface {
	AnalyzeVideos(ctx context.Context, req models.VideoAnalysisRequest) (*ai.Result[models.VideoAnalysisResult], error)
}

type ReportSender interface {
	SendVideoReport(report *models.VideoCoachReport) error
}

// CoachAgent implements the scheduler.Agent interface
type CoachAgent struct {
	config      *config.Config
	log         *zap.Logger
	videos      VideoSource
	analyzer    VideoAnalyzer
	emailSender ReportSender
}

type CoachMetrics struct {
	Comparisons int
	Analyzed    int
	Defaulted   int
	Failed      int
}

func (m CoachMetrics) GetSummary() string {
	return fmt.Sprintf("%d comparisons, %d analyzed (%d with defaults), %d failed",
		m.Comparisons, m.Analyzed, m.Defaulted, m.Failed)
}

func NewCoachAgent(cfg *config.Config, logger *zap.Logger) *CoachAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachAgent{
		config: cfg,
		log:    logger,
	}
}

func (a *CoachAgent) Name() string {
	return "Video Coach"
}

func (a *CoachAgent) Initialize() error {
	a.log.Info("Initializing agent", zap.String("agent", a.Name()))
	ctx := context.Background()

	if a.videos == nil {
		client, err := youtube.NewClient(ctx, &a.config.VideoCoach.YouTube, a.log)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		a.videos = client
		a.log.Info("YouTube client initialized", zap.Bool("oauth", a.config.VideoCoach.YouTube.UsesOAuth()))
	}

	if a.analyzer == nil {
		completer, err := ai.NewCompleter(ctx, &a.config.AI, a.log)
		if err != nil {
			return fmt.Errorf("failed to create completion client: %w", err)
		}
		generator, err := ai.NewGenerator(&a.config.AI, completer, a.log)
		if err != nil {
			return fmt.Errorf("failed to create generator: %w", err)
		}
		a.analyzer = generator
		a.log.Info("Analyzer initialized", zap.String("provider", completer.Name()))
	}

	if a.emailSender == nil {
		a.emailSender = email.NewSender(&a.config.Email)
		a.log.Info("Email sender initialized")
	}

	return nil
}

func (a *CoachAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	comparisons := a.config.VideoCoach.Comparisons
	metrics := CoachMetrics{Comparisons: len(comparisons)}

	var failures []error
	for i, cmp := range comparisons {
		log := a.log.With(
			zap.String("user_video_id", cmp.UserVideoID),
			zap.String("viral_video_id", cmp.ViralVideoID))
		log.Info("Analyzing comparison", zap.Int("index", i+1), zap.Int("total", len(comparisons)))

		report, err := a.compare(ctx, cmp)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("Comparison failed", zap.Error(err))
			failures = append(failures, fmt.Errorf("%s vs %s: %w", cmp.UserVideoID, cmp.ViralVideoID, err))
			continue
		}

		if err := a.emailSender.SendVideoReport(report); err != nil {
			failures = append(failures, fmt.Errorf("failed to send report for %s: %w", cmp.UserVideoID, err))
			continue
		}

		metrics.Analyzed++
		if len(report.Defaulted) > 0 {
			metrics.Defaulted++
		}
		log.Info("Report sent", zap.Int("overall_score", report.Analysis.OverallScore))
	}
	metrics.Failed = len(failures)

	if metrics.Analyzed == 0 && len(failures) > 0 {
		return fmt.Errorf("all %d comparisons failed: %w", len(comparisons), errors.Join(failures...))
	}

	duration := time.Since(startTime)
	if len(failures) > 0 {
		events.OnPartialFailure(errors.Join(failures...), duration)
	}
	events.OnSuccess(metrics, duration)
	return nil
}

func (a *CoachAgent) compare(ctx context.Context, cmp config.Comparison) (*models.VideoCoachReport, error) {
	videos, err := a.videos.GetVideos(ctx, []string{cmp.UserVideoID, cmp.ViralVideoID})
	if err != nil {
		return nil, err
	}
	userVideo, viralVideo := videos[0], videos[1]

	result, err := a.analyzer.AnalyzeVideos(ctx, models.VideoAnalysisRequest{
		UserVideoName:         userVideo.Title,
		UserVideoDescription:  describe(userVideo),
		ViralVideoName:        viralVideo.Title,
		ViralVideoDescription: describe(viralVideo),
	})
	if err != nil {
		return nil, err
	}

	return &models.VideoCoachReport{
		Date:       time.Now(),
		UserVideo:  userVideo,
		ViralVideo: viralVideo,
		Analysis:   &result.Value,
		Defaulted:  result.Provenance.Defaulted(),
	}, nil
}

// describe turns video metadata into the free-text description the analysis prompt expects.
func describe(v *models.Video) string {
	desc := fmt.Sprintf("Channel: %s. Duration: %ds. Views: %d, likes: %d, comments: %d.",
		v.ChannelTitle, v.DurationSeconds, v.ViewCount, v.LikeCount, v.CommentCount)
	if len(v.Tags) > 0 {
		desc += fmt.Sprintf(" Tags: %s.", joinLimited(v.Tags, 15))
	}
	if v.Description != "" {
		desc += " " + truncateString(v.Description, descriptionLimit)
	}
	return desc
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "..."
}
