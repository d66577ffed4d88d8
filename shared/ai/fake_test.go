package ai

import (
	"context"
	"sync"
)

type reply struct {
	text string
	err  error
}

// scriptedCompleter returns its replies in order and repeats the last one.
type scriptedCompleter struct {
	mu       sync.Mutex
	replies  []reply
	calls    int
	requests []CompletionRequest
	block    bool
}

func (s *scriptedCompleter) Name() string { return "scripted" }

func (s *scriptedCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	idx := s.calls
	s.calls++
	s.requests = append(s.requests, req)
	block := s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	r := s.replies[idx]
	return r.text, r.err
}

func (s *scriptedCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *scriptedCompleter) lastRequest() CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}
