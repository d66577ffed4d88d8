package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"creator-stack/internal/models"
)

// TopicTracker remembers which digest topics were delivered recently so a
// topic is not regenerated inside the dedupe window. Only keys and
// timestamps are stored, never generated content.
type TopicTracker struct {
	filePath    string
	deliveredAt map[string]time.Time
	mu          sync.RWMutex
	maxAge      time.Duration
	now         func() time.Time
}

// TrackedTopic is the on-disk form of one delivered topic.
type TrackedTopic struct {
	Key         string    `json:"key"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// TopicKey identifies a request by category and case-folded prompt.
func TopicKey(req models.GenerationRequest) string {
	prompt := strings.Join(strings.Fields(strings.ToLower(req.Prompt)), " ")
	return string(req.Category) + ":" + prompt
}

// NewTopicTracker creates a tracker persisted as JSON under dataDir.
func NewTopicTracker(dataDir string, maxAge time.Duration) (*TopicTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &TopicTracker{
		filePath:    filepath.Join(dataDir, "delivered_topics.json"),
		deliveredAt: make(map[string]time.Time),
		maxAge:      maxAge,
		now:         time.Now,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load topic tracker data: %w", err)
	}

	tracker.cleanup()

	return tracker, nil
}

// IsDelivered reports whether req was delivered within the dedupe window.
func (tt *TopicTracker) IsDelivered(req models.GenerationRequest) bool {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	deliveredAt, exists := tt.deliveredAt[TopicKey(req)]
	if !exists {
		return false
	}
	return tt.now().Sub(deliveredAt) < tt.maxAge
}

// MarkDelivered records every request as delivered now and persists the set.
func (tt *TopicTracker) MarkDelivered(reqs []models.GenerationRequest) error {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	now := tt.now()
	for _, req := range reqs {
		tt.deliveredAt[TopicKey(req)] = now
	}
	return tt.save()
}

// Count returns the number of tracked topics.
func (tt *TopicTracker) Count() int {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return len(tt.deliveredAt)
}

func (tt *TopicTracker) cleanup() {
	cutoff := tt.now().Add(-tt.maxAge)

	for key, deliveredAt := range tt.deliveredAt {
		if deliveredAt.Before(cutoff) {
			delete(tt.deliveredAt, key)
		}
	}
}

func (tt *TopicTracker) load() error {
	file, err := os.Open(tt.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var tracked []TrackedTopic
	if err := json.NewDecoder(file).Decode(&tracked); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}

	for _, t := range tracked {
		tt.deliveredAt[t.Key] = t.DeliveredAt
	}
	return nil
}

// save writes a temp file and renames it over the store.
func (tt *TopicTracker) save() error {
	tracked := make([]TrackedTopic, 0, len(tt.deliveredAt))
	for key, deliveredAt := range tt.deliveredAt {
		tracked = append(tracked, TrackedTopic{Key: key, DeliveredAt: deliveredAt})
	}

	tmp := tt.filePath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tracked); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode tracker data: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close tracker file: %w", err)
	}
	return os.Rename(tmp, tt.filePath)
}
