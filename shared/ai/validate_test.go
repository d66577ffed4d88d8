package ai

import (
	"math"
	"testing"

	"creator-stack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContentIsTotal(t *testing.T) {
	inputs := map[string]Tree{
		"Empty tree":         {},
		"Wrong wrapper type": {"hashtags": "oops", "captions": 3.0, "scripts": []any{}, "songs": nil},
		"Wrong field types": {
			"hashtags": map[string]any{"trending": "#a", "niche": 1.0, "long_tail": map[string]any{}},
			"captions": map[string]any{"hook": 1.0, "main_content": []any{"x"}, "cta": ""},
			"scripts":  map[string]any{"hook": nil, "steps": "one", "outro": true},
			"songs":    map[string]any{"trending": []any{1.0, nil}, "mood_based": []any{}, "genre": "Pop"},
		},
	}

	for name, tree := range inputs {
		for _, category := range models.ContentCategories() {
			t.Run(name+"/"+category.String(), func(t *testing.T) {
				n, err := Normalize(tree, category)
				require.NoError(t, err)

				result := ValidateContent(n)
				assert.Equal(t, category, result.Value.Category)
				assertContentPopulated(t, result.Value)
				assert.False(t, result.Provenance.FullyProvided())
			})
		}
	}
}

func assertContentPopulated(t *testing.T, c models.GeneratedContent) {
	t.Helper()
	switch c.Category {
	case models.CategoryHashtags:
		require.NotNil(t, c.Hashtags)
		assert.NotEmpty(t, c.Hashtags.Trending)
		assert.NotEmpty(t, c.Hashtags.Niche)
		assert.NotEmpty(t, c.Hashtags.LongTail)
	case models.CategoryCaptions:
		require.NotNil(t, c.Captions)
		assert.NotEmpty(t, c.Captions.Hook)
		assert.NotEmpty(t, c.Captions.MainContent)
		assert.NotEmpty(t, c.Captions.CTA)
	case models.CategoryScripts:
		require.NotNil(t, c.Scripts)
		assert.NotEmpty(t, c.Scripts.Hook)
		assert.NotEmpty(t, c.Scripts.Steps)
		assert.NotEmpty(t, c.Scripts.Outro)
	case models.CategorySongs:
		require.NotNil(t, c.Songs)
		assert.NotEmpty(t, c.Songs.Trending)
		assert.NotEmpty(t, c.Songs.MoodBased)
		assert.NotEmpty(t, c.Songs.Genre)
	default:
		t.Fatalf("unexpected category %q", c.Category)
	}
}

func TestValidateContentCleanPayloadIsUnchanged(t *testing.T) {
	tree, err := Extract(`{"captions":{"hook":"h","main_content":"m","cta":"c"}}`)
	require.NoError(t, err)
	n, err := Normalize(tree, models.CategoryCaptions)
	require.NoError(t, err)

	result := ValidateContent(n)
	assert.Equal(t, &models.Captions{Hook: "h", MainContent: "m", CTA: "c"}, result.Value.Captions)
	assert.Nil(t, result.Value.Hashtags)
	assert.True(t, result.Provenance.FullyProvided())
}

func TestValidateContentFlatHashtags(t *testing.T) {
	tree, err := Extract(`{"trending":["#a"],"niche":["#b"],"long_tail":["#c"]}`)
	require.NoError(t, err)
	n, err := Normalize(tree, models.CategoryHashtags)
	require.NoError(t, err)

	result := ValidateContent(n)
	assert.Equal(t, &models.Hashtags{
		Trending: []string{"#a"},
		Niche:    []string{"#b"},
		LongTail: []string{"#c"},
	}, result.Value.Hashtags)
}

func TestValidateContentPartialCaptions(t *testing.T) {
	tree, err := Extract(`{"captions":{"hook":"h","cta":"c"}}`)
	require.NoError(t, err)
	n, err := Normalize(tree, models.CategoryCaptions)
	require.NoError(t, err)

	result := ValidateContent(n)
	assert.Equal(t, "h", result.Value.Captions.Hook)
	assert.Equal(t, "c", result.Value.Captions.CTA)
	assert.Equal(t, "This content will change everything you thought you knew about this topic.", result.Value.Captions.MainContent)
	assert.Equal(t, []string{"captions.main_content"}, result.Provenance.Defaulted())
	assert.Equal(t, models.SourceProvided, result.Provenance["captions.hook"])
}

func TestValidateContentListFiltering(t *testing.T) {
	n := Normalized{
		Category: models.CategoryScripts,
		Tree: Tree{"scripts": map[string]any{
			"hook":  "h",
			"steps": []any{"one", 2.0, "", "  ", nil, "two"},
			"outro": "o",
		}},
	}

	result := ValidateContent(n)
	assert.Equal(t, []string{"one", "two"}, result.Value.Scripts.Steps)
	assert.True(t, result.Provenance.FullyProvided())
}

func TestValidateContentEmptyListIsDefaulted(t *testing.T) {
	n := Normalized{
		Category: models.CategorySongs,
		Tree: Tree{"songs": map[string]any{
			"trending":   []any{},
			"mood_based": []any{"Chill: Song - Artist"},
			"genre":      []any{"Indie"},
		}},
	}

	result := ValidateContent(n)
	assert.Equal(t, []string{"Popular Song - Artist", "Trending Track - Artist"}, result.Value.Songs.Trending)
	assert.Equal(t, []string{"songs.trending"}, result.Provenance.Defaulted())
}

func TestValidateContentDefaultsAreFreshCopies(t *testing.T) {
	first := ValidateContent(Normalized{Category: models.CategoryHashtags, Tree: Tree{}})
	first.Value.Hashtags.Trending[0] = "#mutated"

	second := ValidateContent(Normalized{Category: models.CategoryHashtags, Tree: Tree{}})
	assert.Equal(t, []string{"#viral", "#trending", "#fyp"}, second.Value.Hashtags.Trending)
}

func TestValidateContentNonContentCategory(t *testing.T) {
	result := ValidateContent(Normalized{Category: models.CategoryVideoComparison, Tree: Tree{}})
	assert.Nil(t, result.Value.Hashtags)
	assert.Nil(t, result.Value.Captions)
	assert.Nil(t, result.Value.Scripts)
	assert.Nil(t, result.Value.Songs)
	assert.Empty(t, result.Provenance)
}

func fullVideoTree() Tree {
	return Tree{
		"overall_score": 85.0,
		"target_audience": map[string]any{
			"primary_age_group": "25-34",
			"gender_split":      map[string]any{"male": 45.0, "female": 55.0},
			"interests":         []any{"Fitness", "Food"},
		},
		"technical_analysis": map[string]any{
			"video_quality":   8.0,
			"audio_quality":   7.0,
			"visual_appeal":   9.0,
			"editing_quality": 8.0,
			"lighting":        6.0,
			"composition":     8.0,
		},
		"content_strategy": map[string]any{
			"hook_effectiveness": 9.0,
			"storytelling":       8.0,
			"call_to_action":     7.0,
			"trending_elements":  8.0,
			"authenticity":       9.0,
			"emotional_impact":   8.0,
		},
		"performance_prediction": map[string]any{
			"estimated_views":           50000.0,
			"estimated_engagement_rate": "8.5",
			"viral_potential":           75.0,
			"optimal_posting_time":      "7:00 PM - 9:00 PM",
			"trending_score":            80.0,
		},
		"recommendations":   []any{"Improve lighting"},
		"missing_elements":  []any{"Trending music"},
		"detailed_analysis": "Solid hook, weak lighting.",
	}
}

func TestValidateVideoAnalysisFullPayload(t *testing.T) {
	result := ValidateVideoAnalysis(fullVideoTree())

	v := result.Value
	assert.Equal(t, 85, v.OverallScore)
	assert.Equal(t, "25-34", v.TargetAudience.PrimaryAgeGroup)
	assert.Equal(t, models.GenderSplit{Male: 45, Female: 55}, v.TargetAudience.GenderSplit)
	assert.Equal(t, 6, v.TechnicalAnalysis.Lighting)
	assert.Equal(t, 7, v.ContentStrategy.CallToAction)
	assert.Equal(t, int64(50000), v.PerformancePrediction.EstimatedViews)
	assert.Equal(t, "8.5", v.PerformancePrediction.EstimatedEngagementRate)
	assert.Equal(t, []string{"Improve lighting"}, v.Recommendations)
	assert.True(t, result.Provenance.FullyProvided())
}

func TestValidateVideoAnalysisMissingLighting(t *testing.T) {
	tree := fullVideoTree()
	delete(tree["technical_analysis"].(map[string]any), "lighting")

	result := ValidateVideoAnalysis(tree)
	assert.Equal(t, 5, result.Value.TechnicalAnalysis.Lighting)
	assert.Equal(t, 8, result.Value.TechnicalAnalysis.VideoQuality)
	assert.Equal(t, 9, result.Value.TechnicalAnalysis.VisualAppeal)
	assert.Equal(t, []string{"technical_analysis.lighting"}, result.Provenance.Defaulted())
}

func TestValidateVideoAnalysisEmptyTree(t *testing.T) {
	result := ValidateVideoAnalysis(Tree{})

	v := result.Value
	assert.Equal(t, 50, v.OverallScore)
	assert.Equal(t, "18-34", v.TargetAudience.PrimaryAgeGroup)
	assert.Equal(t, models.GenderSplit{Male: 50, Female: 50}, v.TargetAudience.GenderSplit)
	assert.Equal(t, []string{"General"}, v.TargetAudience.Interests)
	assert.Equal(t, 5, v.ContentStrategy.EmotionalImpact)
	assert.Equal(t, int64(10000), v.PerformancePrediction.EstimatedViews)
	assert.Equal(t, "5.0", v.PerformancePrediction.EstimatedEngagementRate)
	assert.Equal(t, 50, v.PerformancePrediction.ViralPotential)
	assert.Equal(t, "6:00 PM - 9:00 PM", v.PerformancePrediction.OptimalPostingTime)
	assert.Equal(t, []string{"Focus on improving overall content quality"}, v.Recommendations)
	assert.Equal(t, []string{"Basic content elements"}, v.MissingElements)
	assert.Equal(t, "Analysis completed successfully.", v.DetailedAnalysis)
	assert.Len(t, result.Provenance, 25)
	assert.False(t, result.Provenance.FullyProvided())
}

func TestValidateVideoAnalysisScoreCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "Integer", value: 7.0, want: 7},
		{name: "Rounded", value: 7.6, want: 8},
		{name: "Numeric string", value: "9", want: 9},
		{name: "Above range", value: 11.0, want: 5},
		{name: "Below range", value: 0.0, want: 5},
		{name: "Text", value: "great", want: 5},
		{name: "Boolean", value: true, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := fullVideoTree()
			tree["content_strategy"].(map[string]any)["storytelling"] = tt.value

			result := ValidateVideoAnalysis(tree)
			assert.Equal(t, tt.want, result.Value.ContentStrategy.Storytelling)
		})
	}
}

func TestValidateVideoAnalysisPerformanceCoercion(t *testing.T) {
	tree := fullVideoTree()
	perf := tree["performance_prediction"].(map[string]any)
	perf["estimated_views"] = "120,000"
	perf["estimated_engagement_rate"] = 6.25
	perf["viral_potential"] = 0.0

	result := ValidateVideoAnalysis(tree)
	p := result.Value.PerformancePrediction
	assert.Equal(t, int64(120000), p.EstimatedViews)
	assert.Equal(t, "6.2", p.EstimatedEngagementRate)
	assert.Equal(t, 0, p.ViralPotential)

	for _, views := range []any{-5.0, 1e300, "1e300", float64(math.MaxInt64)} {
		perf["estimated_views"] = views
		result = ValidateVideoAnalysis(tree)
		assert.Equal(t, int64(10000), result.Value.PerformancePrediction.EstimatedViews, "views %v", views)
		assert.Equal(t, models.SourceDefaulted, result.Provenance["performance_prediction.estimated_views"], "views %v", views)
	}

	perf["estimated_views"] = 9e15
	result = ValidateVideoAnalysis(tree)
	assert.Equal(t, int64(9e15), result.Value.PerformancePrediction.EstimatedViews)
}

func TestValidateVideoAnalysisHugeScoresDefault(t *testing.T) {
	for _, score := range []any{1e300, -1e300, "1e19"} {
		tree := fullVideoTree()
		tree["overall_score"] = score
		tree["technical_analysis"].(map[string]any)["lighting"] = score

		result := ValidateVideoAnalysis(tree)
		assert.Equal(t, 50, result.Value.OverallScore, "score %v", score)
		assert.Equal(t, 5, result.Value.TechnicalAnalysis.Lighting, "score %v", score)
		assert.ElementsMatch(t, []string{"overall_score", "technical_analysis.lighting"}, result.Provenance.Defaulted())
	}
}

func TestValidateVideoAnalysisNestedObjectReplaced(t *testing.T) {
	tree := fullVideoTree()
	tree["target_audience"] = "everyone"

	result := ValidateVideoAnalysis(tree)
	assert.Equal(t, "18-34", result.Value.TargetAudience.PrimaryAgeGroup)
	assert.Equal(t, models.GenderSplit{Male: 50, Female: 50}, result.Value.TargetAudience.GenderSplit)
	assert.ElementsMatch(t, []string{
		"target_audience.primary_age_group",
		"target_audience.gender_split.male",
		"target_audience.gender_split.female",
		"target_audience.interests",
	}, result.Provenance.Defaulted())
}
