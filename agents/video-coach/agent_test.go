package videocoach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"creator-stack/agents/video-coach/youtube"
	"creator-stack/internal/models"
	"creator-stack/shared/ai"
	"creator-stack/shared/config"
	"creator-stack/shared/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	videos map[string]*models.Video
}

func (f *fakeSource) GetVideos(ctx context.Context, ids []string) ([]*models.Video, error) {
	out := make([]*models.Video, 0, len(ids))
	for _, id := range ids {
		v, ok := f.videos[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", youtube.ErrVideoNotFound, id)
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeAnalyzer struct {
	requests []models.VideoAnalysisRequest
	tree     ai.Tree
	err      error
}

func (f *fakeAnalyzer) AnalyzeVideos(ctx context.Context, req models.VideoAnalysisRequest) (*ai.Result[models.VideoAnalysisResult], error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	result := ai.ValidateVideoAnalysis(f.tree)
	return &result, nil
}

type fakeSender struct {
	reports []*models.VideoCoachReport
	err     error
}

func (f *fakeSender) SendVideoReport(report *models.VideoCoachReport) error {
	f.reports = append(f.reports, report)
	return f.err
}

type recordedEvents struct {
	success []scheduler.Metrics
	partial []error
}

func (r *recordedEvents) events() *scheduler.AgentEvents {
	return &scheduler.AgentEvents{
		OnSuccess:         func(m scheduler.Metrics, _ time.Duration) { r.success = append(r.success, m) },
		OnPartialFailure:  func(err error, _ time.Duration) { r.partial = append(r.partial, err) },
		OnCriticalFailure: func(err error, _ time.Duration) {},
	}
}

func testVideos() map[string]*models.Video {
	return map[string]*models.Video{
		"mine": {
			ID:              "mine",
			Title:           "My cooking short",
			Description:     "Quick pasta in 60 seconds",
			ChannelTitle:    "Me",
			DurationSeconds: 58,
			ViewCount:       1200,
			Tags:            []string{"pasta", "cooking"},
		},
		"viral": {
			ID:              "viral",
			Title:           "The pasta trick nobody knows",
			Description:     "This went everywhere",
			ChannelTitle:    "Big Chef",
			DurationSeconds: 45,
			ViewCount:       4500000,
		},
	}
}

func newTestAgent(comparisons []config.Comparison, analyzer *fakeAnalyzer, sender *fakeSender) *CoachAgent {
	agent := NewCoachAgent(&config.Config{
		VideoCoach: config.VideoCoachConfig{Comparisons: comparisons},
	}, zap.NewNop())
	agent.videos = &fakeSource{videos: testVideos()}
	agent.analyzer = analyzer
	agent.emailSender = sender
	return agent
}

func TestRunOnceSendsReport(t *testing.T) {
	analyzer := &fakeAnalyzer{tree: ai.Tree{
		"overall_score":     float64(72),
		"detailed_analysis": "Strong hook, weak ending.",
	}}
	sender := &fakeSender{}
	agent := newTestAgent([]config.Comparison{{UserVideoID: "mine", ViralVideoID: "viral"}}, analyzer, sender)

	rec := &recordedEvents{}
	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	require.Len(t, analyzer.requests, 1)
	req := analyzer.requests[0]
	assert.Equal(t, "My cooking short", req.UserVideoName)
	assert.Equal(t, "The pasta trick nobody knows", req.ViralVideoName)
	assert.Contains(t, req.UserVideoDescription, "Quick pasta in 60 seconds")
	assert.Contains(t, req.UserVideoDescription, "Tags: pasta, cooking.")
	assert.Contains(t, req.ViralVideoDescription, "Views: 4500000")

	require.Len(t, sender.reports, 1)
	report := sender.reports[0]
	assert.Equal(t, "mine", report.UserVideo.ID)
	assert.Equal(t, "viral", report.ViralVideo.ID)
	assert.Equal(t, 72, report.Analysis.OverallScore)
	assert.Equal(t, "Strong hook, weak ending.", report.Analysis.DetailedAnalysis)
	assert.NotContains(t, report.Defaulted, "overall_score")
	assert.Contains(t, report.Defaulted, "technical_analysis.lighting")

	require.Len(t, rec.success, 1)
	assert.Empty(t, rec.partial)
	metrics := rec.success[0].(CoachMetrics)
	assert.Equal(t, CoachMetrics{Comparisons: 1, Analyzed: 1, Defaulted: 1}, metrics)
}

func TestRunOncePartialFailure(t *testing.T) {
	analyzer := &fakeAnalyzer{tree: ai.Tree{}}
	sender := &fakeSender{}
	agent := newTestAgent([]config.Comparison{
		{UserVideoID: "mine", ViralVideoID: "viral"},
		{UserVideoID: "mine", ViralVideoID: "deleted"},
	}, analyzer, sender)

	rec := &recordedEvents{}
	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	assert.Len(t, sender.reports, 1)
	require.Len(t, rec.partial, 1)
	assert.True(t, errors.Is(rec.partial[0], youtube.ErrVideoNotFound))

	metrics := rec.success[0].(CoachMetrics)
	assert.Equal(t, 1, metrics.Failed)
	assert.Equal(t, "2 comparisons, 1 analyzed (1 with defaults), 1 failed", metrics.GetSummary())
}

func TestRunOnceAllFailed(t *testing.T) {
	analyzer := &fakeAnalyzer{err: &ai.ExtractionError{Raw: "not json"}}
	sender := &fakeSender{}
	agent := newTestAgent([]config.Comparison{{UserVideoID: "mine", ViralVideoID: "viral"}}, analyzer, sender)

	rec := &recordedEvents{}
	err := agent.RunOnce(context.Background(), rec.events())
	require.Error(t, err)
	assert.True(t, ai.IsExtractionError(err))
	assert.Empty(t, sender.reports)
	assert.Empty(t, rec.success)
}

func TestRunOnceEmailFailure(t *testing.T) {
	analyzer := &fakeAnalyzer{tree: ai.Tree{}}
	sender := &fakeSender{err: errors.New("smtp down")}
	agent := newTestAgent([]config.Comparison{{UserVideoID: "mine", ViralVideoID: "viral"}}, analyzer, sender)

	err := agent.RunOnce(context.Background(), (&recordedEvents{}).events())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestRunOnceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := &fakeAnalyzer{err: context.Canceled}
	agent := newTestAgent([]config.Comparison{{UserVideoID: "mine", ViralVideoID: "viral"}}, analyzer, &fakeSender{})

	err := agent.RunOnce(ctx, (&recordedEvents{}).events())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "héllo...", truncateString("héllo wörld", 5))
	assert.Equal(t, strings.Repeat("a", descriptionLimit)+"...", truncateString(strings.Repeat("a", descriptionLimit+5), descriptionLimit))
}

func TestDescribeOmitsEmptyParts(t *testing.T) {
	desc := describe(&models.Video{ChannelTitle: "Solo", DurationSeconds: 10})
	assert.Equal(t, "Channel: Solo. Duration: 10s. Views: 0, likes: 0, comments: 0.", desc)
}
