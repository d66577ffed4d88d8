package ai

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"creator-stack/internal/models"
)

// ContentSystemPrompt is sent with every content generation request.
const ContentSystemPrompt = "You are an expert social media content creator. " +
	"Provide detailed, actionable content in the exact JSON format requested. " +
	"Ensure all responses are in valid JSON format. " +
	"Be specific and provide real, actionable content based on the user's request."

// VideoSystemPrompt is sent with every video comparison request.
const VideoSystemPrompt = "You are an expert social media video analyst. " +
	"Provide detailed, actionable insights in the exact JSON format requested. " +
	"Ensure all numeric values are numbers, not strings."

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

var templateNames = map[models.Category]string{
	models.CategoryHashtags:        "hashtags.tmpl",
	models.CategoryCaptions:        "captions.tmpl",
	models.CategoryScripts:         "scripts.tmpl",
	models.CategorySongs:           "songs.tmpl",
	models.CategoryVideoComparison: "video_comparison.tmpl",
}

// BuildPrompt renders the instruction text for a content category. The
// prompt shows the category fields flat; Normalize restores the wrapper.
func BuildPrompt(category models.Category, userPrompt string) (string, error) {
	if !category.IsContent() {
		return "", &ConfigurationError{Field: "category", Reason: fmt.Sprintf("no content prompt for category %q", category)}
	}
	if strings.TrimSpace(userPrompt) == "" {
		return "", ErrEmptyPrompt
	}
	return render(category, struct{ Prompt string }{Prompt: userPrompt})
}

// BuildVideoComparisonPrompt renders the side-by-side analysis prompt for a
// user video and a viral reference video.
func BuildVideoComparisonPrompt(req models.VideoAnalysisRequest) (string, error) {
	if strings.TrimSpace(req.UserVideoName) == "" || strings.TrimSpace(req.ViralVideoName) == "" {
		return "", ErrEmptyPrompt
	}
	return render(models.CategoryVideoComparison, req)
}

func render(category models.Category, data any) (string, error) {
	name, ok := templateNames[category]
	if !ok {
		return "", &ConfigurationError{Field: "category", Reason: "unknown category " + string(category)}
	}
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", category, err)
	}
	return buf.String(), nil
}
