package contentdigest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"creator-stack/internal/models"
	"creator-stack/shared/ai"
	"creator-stack/shared/config"
	"creator-stack/shared/scheduler"
	"creator-stack/shared/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []models.GenerationRequest
	fail  map[string]error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, req models.GenerationRequest) (*ai.Result[models.GeneratedContent], error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if err := f.fail[req.Prompt]; err != nil {
		return nil, err
	}
	tree := ai.Tree{string(req.Category): map[string]any{"hook": "from model"}}
	n, err := ai.Normalize(tree, req.Category)
	if err != nil {
		return nil, err
	}
	result := ai.ValidateContent(n)
	return &result, nil
}

type fakeSender struct {
	reports []*models.DigestReport
	err     error
}

func (f *fakeSender) SendDigest(report *models.DigestReport) error {
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

func newTestAgent(t *testing.T, topics []models.GenerationRequest, gen *fakeGenerator, sender *fakeSender) *DigestAgent {
	t.Helper()
	tracker, err := storage.NewTopicTracker(t.TempDir(), 24*time.Hour)
	require.NoError(t, err)

	agent := NewDigestAgent(&config.Config{
		ContentDigest: config.ContentDigestConfig{Topics: topics, Concurrency: 2},
	}, zap.NewNop())
	agent.generator = gen
	agent.emailSender = sender
	agent.tracker = tracker
	return agent
}

var digestTopics = []models.GenerationRequest{
	{Category: models.CategoryCaptions, Prompt: "morning coffee"},
	{Category: models.CategoryScripts, Prompt: "desk stretches"},
	{Category: models.CategoryHashtags, Prompt: "trail running"},
}

func TestDigestAgentName(t *testing.T) {
	agent := NewDigestAgent(&config.Config{}, nil)
	assert.Equal(t, "Content Digest", agent.Name())
}

func TestDigestMetricsGetSummary(t *testing.T) {
	m := DigestMetrics{Topics: 5, Skipped: 1, Generated: 3, Defaulted: 2, Failed: 1}
	assert.Equal(t, "5 topics, 1 skipped, 3 generated (2 with defaults), 1 failed", m.GetSummary())
}

func TestDigestRunOnceSendsAllTopics(t *testing.T) {
	gen := &fakeGenerator{}
	sender := &fakeSender{}
	agent := newTestAgent(t, digestTopics, gen, sender)
	rec := &recordedEvents{}

	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	require.Len(t, sender.reports, 1)
	report := sender.reports[0]
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Items, 3)
	for i, item := range report.Items {
		assert.Equal(t, digestTopics[i], item.Request, "items keep configured order")
		assert.NotNil(t, item.Content)
	}
	assert.Equal(t, "from model", report.Items[0].Content.Captions.Hook)
	assert.Contains(t, report.Items[0].Defaulted, "captions.main_content")
	assert.Empty(t, report.Failed)

	require.Len(t, rec.success, 1)
	metrics := rec.success[0].(DigestMetrics)
	assert.Equal(t, 3, metrics.Generated)
	assert.Equal(t, 3, metrics.Defaulted)
	assert.Empty(t, rec.partial)
}

func TestDigestRunOnceSkipsDeliveredTopics(t *testing.T) {
	gen := &fakeGenerator{}
	sender := &fakeSender{}
	agent := newTestAgent(t, digestTopics, gen, sender)

	require.NoError(t, agent.RunOnce(context.Background(), (&recordedEvents{}).events()))
	require.Len(t, gen.calls, 3)

	rec := &recordedEvents{}
	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))
	assert.Len(t, gen.calls, 3, "second run should not regenerate")
	assert.Len(t, sender.reports, 1)
	require.Len(t, rec.success, 1)
	assert.Equal(t, 3, rec.success[0].(DigestMetrics).Skipped)
}

func TestDigestRunOncePartialFailure(t *testing.T) {
	gen := &fakeGenerator{fail: map[string]error{
		"desk stretches": &ai.ExtractionError{Raw: "nope", Err: errors.New("no JSON object found")},
	}}
	sender := &fakeSender{}
	agent := newTestAgent(t, digestTopics, gen, sender)
	rec := &recordedEvents{}

	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	require.Len(t, sender.reports, 1)
	assert.Len(t, sender.reports[0].Items, 2)
	assert.Equal(t, []string{"scripts: desk stretches"}, sender.reports[0].Failed)
	require.Len(t, rec.partial, 1)
	assert.True(t, ai.IsExtractionError(rec.partial[0]))

	assert.False(t, agent.tracker.IsDelivered(digestTopics[1]), "failed topic is retried next run")
	assert.True(t, agent.tracker.IsDelivered(digestTopics[0]))
}

func TestDigestRunOnceAllFailed(t *testing.T) {
	transport := &ai.TransportError{StatusCode: 503, Status: "503 Service Unavailable"}
	gen := &fakeGenerator{fail: map[string]error{
		"morning coffee": transport,
		"desk stretches": transport,
		"trail running":  transport,
	}}
	sender := &fakeSender{}
	agent := newTestAgent(t, digestTopics, gen, sender)

	err := agent.RunOnce(context.Background(), (&recordedEvents{}).events())
	require.Error(t, err)
	assert.True(t, ai.IsTransportError(err))
	assert.Empty(t, sender.reports)
}

func TestDigestRunOnceEmailFailureKeepsTopicsPending(t *testing.T) {
	gen := &fakeGenerator{}
	sender := &fakeSender{err: errors.New("smtp down")}
	agent := newTestAgent(t, digestTopics, gen, sender)

	err := agent.RunOnce(context.Background(), (&recordedEvents{}).events())
	require.Error(t, err)
	assert.False(t, agent.tracker.IsDelivered(digestTopics[0]))
}
