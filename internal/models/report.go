package models

import "time"

// DigestItem is one generated topic in a content digest email.
type DigestItem struct {
	Request GenerationRequest `json:"request"`
	Content *GeneratedContent `json:"content"`
	// Defaulted lists fields the model did not supply.
	Defaulted []string `json:"defaulted,omitempty"`
}

// DigestReport is the content digest email payload.
type DigestReport struct {
	RunID  string        `json:"run_id"`
	Date   time.Time     `json:"date"`
	Items  []*DigestItem `json:"items"`
	// Failed lists "category: prompt" for topics that produced no content.
	Failed []string `json:"failed,omitempty"`
}

// VideoCoachReport pairs fetched video metadata with the analysis for one comparison.
type VideoCoachReport struct {
	Date       time.Time            `json:"date"`
	UserVideo  *Video               `json:"user_video"`
	ViralVideo *Video               `json:"viral_video"`
	Analysis   *VideoAnalysisResult `json:"analysis"`
	Defaulted  []string             `json:"defaulted,omitempty"`
}
