package models

import "time"

// Video is the public metadata of a YouTube video used to describe it to the analyzer.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	Tags            []string  `json:"tags,omitempty"`
	URL             string    `json:"url"`
}

// VideoAnalysisRequest compares the creator's video against a viral reference.
type VideoAnalysisRequest struct {
	UserVideoName         string `json:"user_video_name" binding:"required"`
	UserVideoDescription  string `json:"user_video_description" binding:"required"`
	ViralVideoName        string `json:"viral_video_name" binding:"required"`
	ViralVideoDescription string `json:"viral_video_description" binding:"required"`
}

type GenderSplit struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

type TargetAudience struct {
	PrimaryAgeGroup string      `json:"primary_age_group"`
	GenderSplit     GenderSplit `json:"gender_split"`
	Interests       []string    `json:"interests"`
}

// TechnicalAnalysis scores are on a 1-10 scale.
type TechnicalAnalysis struct {
	VideoQuality   int `json:"video_quality"`
	AudioQuality   int `json:"audio_quality"`
	VisualAppeal   int `json:"visual_appeal"`
	EditingQuality int `json:"editing_quality"`
	Lighting       int `json:"lighting"`
	Composition    int `json:"composition"`
}

// ContentStrategy scores are on a 1-10 scale.
type ContentStrategy struct {
	HookEffectiveness int `json:"hook_effectiveness"`
	Storytelling      int `json:"storytelling"`
	CallToAction      int `json:"call_to_action"`
	TrendingElements  int `json:"trending_elements"`
	Authenticity      int `json:"authenticity"`
	EmotionalImpact   int `json:"emotional_impact"`
}

type PerformancePrediction struct {
	EstimatedViews          int64  `json:"estimated_views"`
	EstimatedEngagementRate string `json:"estimated_engagement_rate"`
	ViralPotential          int    `json:"viral_potential"` // 0-100
	OptimalPostingTime      string `json:"optimal_posting_time"`
	TrendingScore           int    `json:"trending_score"` // 0-100
}

// VideoAnalysisResult is the validated comparison of two videos.
type VideoAnalysisResult struct {
	OverallScore          int                   `json:"overall_score"` // 0-100
	TargetAudience        TargetAudience        `json:"target_audience"`
	TechnicalAnalysis     TechnicalAnalysis     `json:"technical_analysis"`
	ContentStrategy       ContentStrategy       `json:"content_strategy"`
	PerformancePrediction PerformancePrediction `json:"performance_prediction"`
	Recommendations       []string              `json:"recommendations"`
	MissingElements       []string              `json:"missing_elements"`
	DetailedAnalysis      string                `json:"detailed_analysis"`
}
