package ai

import (
	"math"
	"strconv"
	"strings"

	"creator-stack/internal/models"
)

// Result is a validated value plus where each of its leaf fields came from.
type Result[T any] struct {
	Value      T
	Provenance models.Provenance
}

// fieldValues holds resolved leaf values keyed by dotted path. Every path the
// schema declares is present, typed as string, []string, int or int64.
type fieldValues map[string]any

func (v fieldValues) str(path string) string {
	s, _ := v[path].(string)
	return s
}

func (v fieldValues) list(path string) []string {
	l, _ := v[path].([]string)
	return l
}

func (v fieldValues) num(path string) int {
	n, _ := v[path].(int)
	return n
}

func (v fieldValues) count(path string) int64 {
	n, _ := v[path].(int64)
	return n
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func asObject(v any) map[string]any {
	switch obj := v.(type) {
	case map[string]any:
		return obj
	case Tree:
		return obj
	}
	return nil
}

// resolve walks fields against obj, recording a typed value for every leaf:
// the model's value when it is present and well-typed, the field default otherwise.
func resolve(obj map[string]any, fields []Field, prefix string, out fieldValues, prov models.Provenance) {
	for _, f := range fields {
		path := joinPath(prefix, f.Name)
		raw, present := obj[f.Name]

		if f.Kind == KindObject {
			resolve(asObject(raw), f.Fields, path, out, prov)
			continue
		}

		if present {
			if val, ok := coerce(f, raw); ok {
				out[path] = val
				prov[path] = models.SourceProvided
				continue
			}
		}
		out[path] = f.defaultValue()
		prov[path] = models.SourceDefaulted
	}
}

func coerce(f Field, raw any) (any, bool) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return s, true

	case KindStringList:
		items, ok := raw.([]any)
		if !ok {
			return nil, false
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true

	case KindScore:
		n, ok := number(raw)
		if !ok {
			return nil, false
		}
		rounded := math.Round(n)
		if rounded < float64(f.Min) || rounded > float64(f.Max) {
			return nil, false
		}
		return int(rounded), true

	case KindCount:
		n, ok := number(raw)
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if !ok || n < 0 || math.Round(n) >= math.MaxInt64 {
			return nil, false
		}
		return int64(math.Round(n)), true

	case KindRate:
		switch v := raw.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, false
			}
			return v, true
		case float64:
			if v < 0 {
				return nil, false
			}
			return strconv.FormatFloat(v, 'f', 1, 64), true
		}
	}
	return nil, false
}

// number accepts JSON numbers and numeric strings such as "8" or "50,000".
func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// ValidateContent maps a normalized tree into the typed content union,
// substituting the category default for every missing or malformed field.
// It never fails. n must come from Normalize with a content category; any
// other category yields a value with no variant set.
func ValidateContent(n Normalized) Result[models.GeneratedContent] {
	prov := models.Provenance{}
	content := models.GeneratedContent{Category: n.Category}

	schema, err := SchemaFor(n.Category)
	if err != nil || !n.Category.IsContent() {
		return Result[models.GeneratedContent]{Value: content, Provenance: prov}
	}

	prefix := string(n.Category)
	v := fieldValues{}
	resolve(asObject(n.Tree[prefix]), schema.Fields, prefix, v, prov)

	switch n.Category {
	case models.CategoryHashtags:
		content.Hashtags = &models.Hashtags{
			Trending: v.list("hashtags.trending"),
			Niche:    v.list("hashtags.niche"),
			LongTail: v.list("hashtags.long_tail"),
		}
	case models.CategoryCaptions:
		content.Captions = &models.Captions{
			Hook:        v.str("captions.hook"),
			MainContent: v.str("captions.main_content"),
			CTA:         v.str("captions.cta"),
		}
	case models.CategoryScripts:
		content.Scripts = &models.Scripts{
			Hook:  v.str("scripts.hook"),
			Steps: v.list("scripts.steps"),
			Outro: v.str("scripts.outro"),
		}
	case models.CategorySongs:
		content.Songs = &models.Songs{
			Trending:  v.list("songs.trending"),
			MoodBased: v.list("songs.mood_based"),
			Genre:     v.list("songs.genre"),
		}
	}

	return Result[models.GeneratedContent]{Value: content, Provenance: prov}
}

// ValidateVideoAnalysis maps a video comparison tree into a fully populated
// result. Nested objects are defaulted field by field.
func ValidateVideoAnalysis(tree Tree) Result[models.VideoAnalysisResult] {
	prov := models.Provenance{}
	v := fieldValues{}
	resolve(tree, schemas[models.CategoryVideoComparison].Fields, "", v, prov)

	result := models.VideoAnalysisResult{
		OverallScore: v.num("overall_score"),
		TargetAudience: models.TargetAudience{
			PrimaryAgeGroup: v.str("target_audience.primary_age_group"),
			GenderSplit: models.GenderSplit{
				Male:   v.num("target_audience.gender_split.male"),
				Female: v.num("target_audience.gender_split.female"),
			},
			Interests: v.list("target_audience.interests"),
		},
		TechnicalAnalysis: models.TechnicalAnalysis{
			VideoQuality:   v.num("technical_analysis.video_quality"),
			AudioQuality:   v.num("technical_analysis.audio_quality"),
			VisualAppeal:   v.num("technical_analysis.visual_appeal"),
			EditingQuality: v.num("technical_analysis.editing_quality"),
			Lighting:       v.num("technical_analysis.lighting"),
			Composition:    v.num("technical_analysis.composition"),
		},
		ContentStrategy: models.ContentStrategy{
			HookEffectiveness: v.num("content_strategy.hook_effectiveness"),
			Storytelling:      v.num("content_strategy.storytelling"),
			CallToAction:      v.num("content_strategy.call_to_action"),
			TrendingElements:  v.num("content_strategy.trending_elements"),
			Authenticity:      v.num("content_strategy.authenticity"),
			EmotionalImpact:   v.num("content_strategy.emotional_impact"),
		},
		PerformancePrediction: models.PerformancePrediction{
			EstimatedViews:          v.count("performance_prediction.estimated_views"),
			EstimatedEngagementRate: v.str("performance_prediction.estimated_engagement_rate"),
			ViralPotential:          v.num("performance_prediction.viral_potential"),
			OptimalPostingTime:      v.str("performance_prediction.optimal_posting_time"),
			TrendingScore:           v.num("performance_prediction.trending_score"),
		},
		Recommendations:  v.list("recommendations"),
		MissingElements:  v.list("missing_elements"),
		DetailedAnalysis: v.str("detailed_analysis"),
	}

	return Result[models.VideoAnalysisResult]{Value: result, Provenance: prov}
}
